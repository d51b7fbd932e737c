package domain

// ============================================================
// Contrato / Empresa
// ============================================================

// ContractCompany is the transport company bound to the user's active
// contract, as returned by GET /contrato. A user has zero or one active
// contract; absence is represented by a nil value, never by an error.
type ContractCompany struct {
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

// IsZero reports whether the decoded payload carries no company at all.
// The API sometimes answers an empty object instead of an empty body, so
// structural emptiness is the condition, not payload length.
func (c *ContractCompany) IsZero() bool {
	return c == nil || (c.Name == "" && c.Email == "" && c.Phone == "")
}
