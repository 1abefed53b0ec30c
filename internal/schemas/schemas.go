// Package schemas holds the request schemas of the EDDA API.
package schemas

import (
	"regexp"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/domain"
	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/validation"
)

var (
	cnpjPattern     = regexp.MustCompile(`^\d{14}$`)
	cepPattern      = regexp.MustCompile(`^\d{8}$`)
	telefonePattern = regexp.MustCompile(`^\d{10,11}$`)
	ufPattern       = regexp.MustCompile(`^[A-Z]{2}$`)
)

// cnpjChecksum leaves malformed input to the pattern rule.
func cnpjChecksum(v any) bool {
	s, _ := v.(string)
	if !cnpjPattern.MatchString(s) {
		return true
	}
	return domain.ValidCNPJ(s)
}

const (
	// maxEstoque fits the INTEGER column.
	maxEstoque = 1<<31 - 1
	// maxID is the largest integer a float64 holds exactly.
	maxID = 1<<53 - 1
)

var (
	ativo   = validation.Boolean()
	estoque = validation.Integer().Min(0).Max(maxEstoque).
		Message("type", "Estoque deve ser um número").
		Message("integer", "Estoque deve ser um número inteiro").
		Message("min", "Estoque não pode ser negativo").
		Message("max", "Estoque deve ser no máximo 2147483647")
	unidade = validation.String().Trim().Uppercase().Valid("UN", "PC", "KG", "M", "L", "CX").
		Message("valid", "Unidade deve ser uma de UN, PC, KG, M, L, CX")
)

var endereco = validation.Object(
	validation.Key("logradouro", validation.String().Trim().Max(200)),
	validation.Key("numero", validation.String().Trim().Max(20)),
	validation.Key("complemento", validation.String().Trim().Max(100).AllowEmpty()),
	validation.Key("bairro", validation.String().Trim().Max(100)),
	validation.Key("cidade", validation.String().Trim().Max(100)),
	validation.Key("estado", validation.String().Trim().Length(2).Uppercase().Pattern(ufPattern).
		Message("length", "Estado deve ser a sigla da UF com 2 letras").
		Message("pattern", "Estado deve ser a sigla da UF com 2 letras")),
	validation.Key("cep", validation.String().Trim().Pattern(cepPattern).
		Message("pattern", "CEP deve conter 8 dígitos")),
)

// ClienteCreate validates the body of POST /api/clientes.
var ClienteCreate = validation.Object(
	validation.Key("nome_empresa", validation.String().Trim().Min(3).Max(200).Required().
		Message("required", "Nome da empresa é obrigatório").
		Message("empty", "Nome da empresa é obrigatório").
		Message("min", "Nome da empresa deve ter pelo menos 3 caracteres").
		Message("max", "Nome da empresa deve ter no máximo 200 caracteres")),
	validation.Key("cnpj", validation.String().Trim().Pattern(cnpjPattern).
		Custom("cnpj", "CNPJ inválido", cnpjChecksum).Required().
		Message("required", "CNPJ é obrigatório").
		Message("empty", "CNPJ é obrigatório").
		Message("pattern", "CNPJ deve conter 14 dígitos")),
	validation.Key("endereco", endereco),
	validation.Key("telefone", validation.String().Trim().Pattern(telefonePattern).
		Message("pattern", "Telefone deve conter 10 ou 11 dígitos")),
	validation.Key("email", validation.String().Trim().Lowercase().Email().
		Message("email", "Email inválido")),
	validation.Key("nome_contato", validation.String().Trim().Max(100)),
	validation.Key("ativo", ativo.Default(true)),
)

// ClienteUpdate validates the body of PUT /api/clientes/{id}.
var ClienteUpdate = validation.Relax(
	withField(ClienteCreate, "ativo", ativo),
	"nome_empresa", "cnpj",
)

// PecaCreate validates the body of POST /api/pecas.
var PecaCreate = validation.Object(
	validation.Key("nome_peca", validation.String().Trim().Min(2).Max(200).Required().
		Message("required", "Nome da peça é obrigatório").
		Message("empty", "Nome da peça é obrigatório").
		Message("min", "Nome da peça deve ter pelo menos 2 caracteres")),
	validation.Key("codigo", validation.String().Trim().Uppercase().Max(50)),
	validation.Key("descricao", validation.String().Trim().Max(1000).AllowEmpty()),
	validation.Key("valor_custo", validation.Number().Min(0).Required().
		Message("required", "Valor de custo é obrigatório").
		Message("type", "Valor de custo deve ser um número").
		Message("min", "Valor de custo não pode ser negativo")),
	validation.Key("valor_venda", validation.Number().Min(0).Required().
		Message("required", "Valor de venda é obrigatório").
		Message("type", "Valor de venda deve ser um número").
		Message("min", "Valor de venda não pode ser negativo")),
	validation.Key("estoque", estoque.Default(0)),
	validation.Key("unidade", unidade.Default("UN")),
)

// PecaUpdate validates the body of PUT /api/pecas/{id}.
var PecaUpdate = validation.Relax(
	withField(withField(PecaCreate, "estoque", estoque), "unidade", unidade),
	"nome_peca", "valor_custo", "valor_venda",
)

// IDParams validates the {id} path parameter.
var IDParams = validation.Object(
	validation.Key("id", validation.Integer().Positive().Max(maxID).Required().
		Message("type", "ID deve ser um número").
		Message("integer", "ID deve ser um número inteiro").
		Message("positive", "ID deve ser positivo").
		Message("max", "ID deve ser no máximo 9007199254740991")),
)

// ListQuery validates pagination and search parameters of list routes.
var ListQuery = validation.Object(
	validation.Key("page", validation.Integer().Min(1).Default(1).
		Message("min", "Página deve ser maior ou igual a 1")),
	validation.Key("limit", validation.Integer().Min(1).Max(100).Default(20).
		Message("min", "Limite deve ser maior ou igual a 1").
		Message("max", "Limite deve ser no máximo 100")),
	validation.Key("busca", validation.String().Trim().Max(100).AllowEmpty()),
)

// withField swaps the rule of name for r. Update schemas use it to drop
// create-time defaults, so omitted fields keep their stored values.
func withField(schema validation.Rule, name string, r validation.Rule) validation.Rule {
	fields := schema.Fields()
	for i, f := range fields {
		if f.Name == name {
			fields[i].Rule = r
		}
	}
	return validation.Object(fields...)
}
