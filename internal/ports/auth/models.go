package auth

// Claims es la información extraída del token del servicio de cuentas.
type Claims struct {
	UserID string
	Email  string
}
