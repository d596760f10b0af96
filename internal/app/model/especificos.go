package model

import "fmt"

// EspecificoKind is the accepted value shape for an especificos entry
type EspecificoKind int

const (
	EspecificoString EspecificoKind = iota
	EspecificoNumber
	EspecificoBool
	EspecificoList
	EspecificoMap
)

// especificosComuns are accepted for every entity type
var especificosComuns = map[string]EspecificoKind{
	"regimeTributario": EspecificoString,
	"faixaFaturamento": EspecificoString,
	"cnaes":            EspecificoList,
	"observacoes":      EspecificoString,
}

// especificosPorTipo lists the extra keys each entity type may carry
var especificosPorTipo = map[TipoEntidade]map[string]EspecificoKind{
	TipoHolding: {
		"empresasControladas": EspecificoString,
		"patrimonioTotal":     EspecificoString,
		"bensImoveis":         EspecificoList,
	},
	TipoSa: {
		"capitalSocial":   EspecificoString,
		"quantidadeAcoes": EspecificoNumber,
		"tipoSA":          EspecificoString,
	},
	TipoSpe: {
		"objetivoSPE":  EspecificoString,
		"prazoDuracao": EspecificoString,
	},
	TipoAssociacao: {
		"finalidadeSocial": EspecificoString,
		"numeroMembros":    EspecificoNumber,
	},
	TipoOscip: {
		"finalidadeSocial": EspecificoString,
		"numeroMembros":    EspecificoNumber,
	},
	TipoLimitada: {},
	TipoSimples:  {},
}

// ValidateEspecificos checks the open attribute bag against the schema of the
// given entity type. Unknown keys and wrong value shapes are rejected; the
// returned map carries one message per offending field.
func ValidateEspecificos(tipo TipoEntidade, especificos JSONMap) map[string]string {
	if len(especificos) == 0 {
		return nil
	}

	problems := make(map[string]string)
	extra := especificosPorTipo[tipo]

	for key, value := range especificos {
		kind, ok := especificosComuns[key]
		if !ok {
			kind, ok = extra[key]
		}
		if !ok {
			problems[key] = fmt.Sprintf("campo não permitido para o tipo %s", tipo)
			continue
		}
		if value == nil {
			continue
		}
		if !matchesKind(value, kind) {
			problems[key] = "valor com formato inválido"
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

func matchesKind(value interface{}, kind EspecificoKind) bool {
	switch kind {
	case EspecificoString:
		_, ok := value.(string)
		return ok
	case EspecificoNumber:
		switch value.(type) {
		case float64, int, int64:
			return true
		}
		return false
	case EspecificoBool:
		_, ok := value.(bool)
		return ok
	case EspecificoList:
		_, ok := value.([]interface{})
		return ok
	case EspecificoMap:
		_, ok := value.(map[string]interface{})
		return ok
	}
	return false
}
