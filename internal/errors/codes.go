package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The admin dashboard maps these codes to user-facing messages.

const (
	// ==================== Autenticação (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login necessário
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // email/senha incorretos
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expirado
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // token inválido
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email duplicado
	AuthUserInactive       = "AUTH_USER_INACTIVE"       // conta desativada

	// ==================== Autorização (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // sem permissão de acesso
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // papel ausente no contexto
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // ação restrita a administradores

	// ==================== Validação (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // entrada inválida
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // id inválido
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // formato inválido
	ValidationRequired      = "VALIDATION_REQUIRED"       // campo obrigatório

	// ==================== Recursos (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // recurso inexistente
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // já existe
	ResourceConflict      = "RESOURCE_CONFLICT"       // conflito

	// ==================== Briefing (BRIEFING_) ====================
	BriefingNotFound          = "BRIEFING_NOT_FOUND"           // briefing inexistente
	BriefingInvalidTipo       = "BRIEFING_INVALID_TIPO"        // tipo de entidade inválido
	BriefingInvalidFinalidade = "BRIEFING_INVALID_FINALIDADE"  // finalidade inválida
	BriefingInvalidStatus     = "BRIEFING_INVALID_STATUS"      // status inválido
	BriefingInvalidTransition = "BRIEFING_INVALID_TRANSITION"  // transição de status não permitida
	BriefingInvalidEspecifico = "BRIEFING_INVALID_ESPECIFICOS" // campo específico inválido
	BriefingProtocoloExists   = "BRIEFING_PROTOCOLO_EXISTS"    // protocolo duplicado

	// ==================== Consulta externa (REGISTRY_) ====================
	RegistryInvalidCNPJ      = "REGISTRY_INVALID_CNPJ"       // CNPJ malformado
	RegistryInvalidCEP       = "REGISTRY_INVALID_CEP"        // CEP malformado
	RegistryTokenMissing     = "REGISTRY_TOKEN_MISSING"      // token do provedor ausente
	RegistryNotFound         = "REGISTRY_NOT_FOUND"          // CNPJ/CEP não encontrado
	RegistryForbidden        = "REGISTRY_FORBIDDEN"          // token sem autorização
	RegistryUnauthorized     = "REGISTRY_UNAUTHORIZED"       // token inválido
	RegistryTimeout          = "REGISTRY_TIMEOUT"            // tempo de consulta excedido
	RegistryUnavailable      = "REGISTRY_UNAVAILABLE"        // provedor indisponível
	RegistryPermanentError   = "REGISTRY_PERMANENT_ERROR"    // erro permanente do provedor
	RegistryUnknownError     = "REGISTRY_UNKNOWN_ERROR"      // erro desconhecido do provedor

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // tipo de arquivo inválido
	UploadFailed          = "UPLOAD_FAILED"            // falha no upload

	// ==================== Exportação (EXPORT_) ====================
	ExportFailed = "EXPORT_FAILED" // falha ao gerar arquivo

	// ==================== Interno (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // erro de servidor
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // erro de banco
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // erro de API externa
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // erro de configuração
)
