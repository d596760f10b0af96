package infosimples

import (
	"encoding/json"
)

// FlexString tolerates providers that emit a field sometimes as a JSON
// string and sometimes as a number (capital_social is the usual offender)
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// consultaResponse is the provider envelope. code 200 means success and data
// carries exactly one registry record.
type consultaResponse struct {
	Code         int               `json:"code"`
	CodeMessage  string            `json:"code_message"`
	Errors       []string          `json:"errors"`
	Data         []registroReceita `json:"data"`
	SiteReceipts []string          `json:"site_receipts"`
}

type atividadeReceita struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

type socioReceita struct {
	Nome         string `json:"nome"`
	Qualificacao string `json:"qualificacao"`
	CpfCnpj      string `json:"cpf_cnpj"`
}

// registroReceita mirrors the provider's raw record shape
type registroReceita struct {
	CNPJ                  string             `json:"cnpj"`
	RazaoSocial           string             `json:"razao_social"`
	Nome                  string             `json:"nome"`
	NomeFantasia          string             `json:"nome_fantasia"`
	SituacaoCadastral     string             `json:"situacao_cadastral"`
	DataSituacaoCadastral string             `json:"data_situacao_cadastral"`
	NaturezaJuridica      string             `json:"natureza_juridica"`
	DataAbertura          string             `json:"data_abertura"`
	CapitalSocial         FlexString         `json:"capital_social"`
	Porte                 string             `json:"porte"`
	Logradouro            string             `json:"logradouro"`
	Numero                string             `json:"numero"`
	Complemento           string             `json:"complemento"`
	Bairro                string             `json:"bairro"`
	Municipio             string             `json:"municipio"`
	UF                    string             `json:"uf"`
	CEP                   string             `json:"cep"`
	Email                 string             `json:"email"`
	Telefone1             string             `json:"telefone_1"`
	Telefone              string             `json:"telefone"`
	AtividadePrincipal    *atividadeReceita  `json:"atividade_principal"`
	AtividadesSecundarias []atividadeReceita `json:"atividades_secundarias"`
	QSA                   []socioReceita     `json:"qsa"`
	SituacaoEspecial      string             `json:"situacao_especial"`
	OpcaoSimples          string             `json:"opcao_simples"`
	OpcaoMEI              string             `json:"opcao_mei"`
}

// Atividade is a CNAE activity as {codigo, descricao}
type Atividade struct {
	Codigo    string `json:"codigo"`
	Descricao string `json:"descricao"`
}

// SocioRegistro is one QSA entry (partner/administrator roster)
type SocioRegistro struct {
	Nome         string `json:"nome"`
	Qualificacao string `json:"qualificacao"`
	CpfCnpj      string `json:"cpfCnpj"`
}

// Registro is the canonical registry record returned to callers. Optional
// fields absent upstream become empty strings/lists, never null.
type Registro struct {
	CNPJ                  string          `json:"cnpj"`
	Nome                  string          `json:"nome"`
	Fantasia              string          `json:"fantasia"`
	Situacao              string          `json:"situacao"`
	DataSituacao          string          `json:"dataSituacao"`
	NaturezaJuridica      string          `json:"naturezaJuridica"`
	DataAbertura          string          `json:"dataAbertura"`
	CapitalSocial         string          `json:"capitalSocial"`
	Porte                 string          `json:"porte"`
	Logradouro            string          `json:"logradouro"`
	Numero                string          `json:"numero"`
	Complemento           string          `json:"complemento"`
	Bairro                string          `json:"bairro"`
	Municipio             string          `json:"municipio"`
	UF                    string          `json:"uf"`
	CEP                   string          `json:"cep"`
	Email                 string          `json:"email"`
	Telefone              string          `json:"telefone"`
	AtividadePrincipal    []Atividade     `json:"atividadePrincipal"`
	AtividadesSecundarias []Atividade     `json:"atividadesSecundarias"`
	QSA                   []SocioRegistro `json:"qsa"`
	SituacaoEspecial      string          `json:"situacaoEspecial"`
	OpcaoSimples          string          `json:"opcaoSimples"`
	OpcaoMEI              string          `json:"opcaoMei"`
	Comprovantes          []string        `json:"comprovantes"`
}

// normalizar reshapes the provider record into the canonical one
func normalizar(dados registroReceita, receipts []string) *Registro {
	nome := dados.RazaoSocial
	if nome == "" {
		nome = dados.Nome
	}

	telefone := dados.Telefone1
	if telefone == "" {
		telefone = dados.Telefone
	}

	registro := &Registro{
		CNPJ:                  dados.CNPJ,
		Nome:                  nome,
		Fantasia:              dados.NomeFantasia,
		Situacao:              dados.SituacaoCadastral,
		DataSituacao:          dados.DataSituacaoCadastral,
		NaturezaJuridica:      dados.NaturezaJuridica,
		DataAbertura:          dados.DataAbertura,
		CapitalSocial:         dados.CapitalSocial.String(),
		Porte:                 dados.Porte,
		Logradouro:            dados.Logradouro,
		Numero:                dados.Numero,
		Complemento:           dados.Complemento,
		Bairro:                dados.Bairro,
		Municipio:             dados.Municipio,
		UF:                    dados.UF,
		CEP:                   dados.CEP,
		Email:                 dados.Email,
		Telefone:              telefone,
		AtividadePrincipal:    []Atividade{},
		AtividadesSecundarias: []Atividade{},
		QSA:                   []SocioRegistro{},
		SituacaoEspecial:      dados.SituacaoEspecial,
		OpcaoSimples:          dados.OpcaoSimples,
		OpcaoMEI:              dados.OpcaoMEI,
		Comprovantes:          []string{},
	}

	if dados.AtividadePrincipal != nil {
		registro.AtividadePrincipal = append(registro.AtividadePrincipal, Atividade{
			Codigo:    dados.AtividadePrincipal.Codigo,
			Descricao: dados.AtividadePrincipal.Descricao,
		})
	}
	for _, a := range dados.AtividadesSecundarias {
		registro.AtividadesSecundarias = append(registro.AtividadesSecundarias, Atividade{
			Codigo:    a.Codigo,
			Descricao: a.Descricao,
		})
	}
	for _, s := range dados.QSA {
		registro.QSA = append(registro.QSA, SocioRegistro{
			Nome:         s.Nome,
			Qualificacao: s.Qualificacao,
			CpfCnpj:      s.CpfCnpj,
		})
	}
	registro.Comprovantes = append(registro.Comprovantes, receipts...)

	return registro
}
