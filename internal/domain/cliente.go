package domain

import "time"

// Endereco is a Brazilian postal address.
type Endereco struct {
	Logradouro  string `json:"logradouro,omitempty"`
	Numero      string `json:"numero,omitempty"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro,omitempty"`
	Cidade      string `json:"cidade,omitempty"`
	Estado      string `json:"estado,omitempty"` // UF, two upper-case letters
	CEP         string `json:"cep,omitempty"`
}

// Cliente is a customer company.
type Cliente struct {
	ID          int64     `json:"id"`
	NomeEmpresa string    `json:"nome_empresa"`
	CNPJ        string    `json:"cnpj"`
	Endereco    Endereco  `json:"endereco"`
	Telefone    string    `json:"telefone,omitempty"`
	Email       string    `json:"email,omitempty"`
	NomeContato string    `json:"nome_contato,omitempty"`
	Ativo       bool      `json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
