package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts database and infrastructure errors into user-facing
// codes/messages without leaking internals. context hints at the operation
// being performed ("create briefing", "delete user", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Erro interno do servidor",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations

	// unique_violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// foreign_key_violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// not_null_violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// Network errors from outbound calls
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Falha na comunicação com serviço externo. Tente novamente mais tarde",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "protocolo") {
		return ErrorInfo{
			Code:    BriefingProtocoloExists,
			Message: "Protocolo já utilizado. Tente novamente",
		}
	}

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "Email já cadastrado",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "Registro já existente. Tente novamente",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Registro já existente",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "user") || strings.Contains(context, "usuário") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Usuário possui briefings vinculados e não pode ser excluído",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Registro possui vínculos e não pode ser excluído",
		}
	}

	if strings.Contains(errLower, "briefing_id") || strings.Contains(errLower, "fk_briefings") {
		return ErrorInfo{
			Code:    BriefingNotFound,
			Message: "Briefing não encontrado",
		}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "Usuário não encontrado",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "Registro referenciado não encontrado",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "nome_cliente"):
		return ErrorInfo{Code: ValidationRequired, Message: "Nome do cliente é obrigatório"}
	case strings.Contains(errLower, "cpf_cnpj"):
		return ErrorInfo{Code: ValidationRequired, Message: "CPF/CNPJ é obrigatório"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ValidationRequired, Message: "Email é obrigatório"}
	case strings.Contains(errLower, "password"):
		return ErrorInfo{Code: ValidationRequired, Message: "Senha é obrigatória"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "Campo obrigatório ausente",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "briefing") {
		return "Briefing não encontrado"
	}
	if strings.Contains(contextLower, "socio") || strings.Contains(contextLower, "sócio") {
		return "Sócio não encontrado"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "usuário") {
		return "Usuário não encontrado"
	}

	return "Registro não encontrado"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "criar") {
		return "Erro ao cadastrar. Tente novamente mais tarde"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "atualizar") {
		return "Erro ao atualizar. Tente novamente mais tarde"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "excluir") {
		return "Erro ao excluir. Tente novamente mais tarde"
	}
	if strings.Contains(contextLower, "export") {
		return "Erro ao exportar. Tente novamente mais tarde"
	}

	return "Erro interno do servidor. Tente novamente mais tarde"
}

// ParseAndRespond parses the error and writes the standard body
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
