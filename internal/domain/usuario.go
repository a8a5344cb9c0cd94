package domain

// Usuario is an operator account. Password holds a bcrypt hash; legacy rows
// may still contain plaintext and are migrated on first successful login.
type Usuario struct {
	ID             int64  `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
	Password       string `json:"-"`
}
