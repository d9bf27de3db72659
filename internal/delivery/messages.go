package delivery

const (
	msgNotAnImage       = "El archivo seleccionado no es una imagen válida"
	msgImageTooLarge    = "La imagen supera el tamaño máximo permitido"
	msgFormTooLarge     = "El formulario supera el tamaño permitido, vuelve a seleccionar la imagen"
	msgFormMalformed    = "No se pudo leer el formulario enviado"
	msgLoginFailed      = "Correo o contraseña incorrectos"
	msgLoginUnavailable = "No se pudo conectar con el servidor de autenticación"
	msgLoginMissing     = "Ingresa tu correo y contraseña"
	msgLoggedOut        = "Sesión cerrada"
)
