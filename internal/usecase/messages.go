package usecase

import (
	"errors"

	"admin_console/internal/domain"
)

const (
	msgLoadListFailed   = "Error al cargar la lista de productos"
	msgLoadProductFail  = "Error al cargar los datos del producto"
	msgDeleteConfirm    = "¿Estás seguro de que deseas eliminar este producto?"
	msgDeleted          = "Producto eliminado correctamente"
	msgDeleteFailed     = "Error al eliminar el producto"
	msgCreated          = "Producto creado correctamente"
	msgUpdated          = "Producto actualizado correctamente"
	msgSaveFailed       = "Error al guardar el producto"
	msgMissingFields    = "Por favor completa todos los campos obligatorios"
	msgMissingImage     = "Por favor selecciona una imagen para el producto"
	msgInvalidPrice     = "El precio debe ser un número mayor o igual a 0"
	msgDashboardFailed  = "Error al cargar datos del dashboard"
	msgOperationPending = "Ya hay una operación en curso"
)

// describe turns a facade failure into the message shown to the user.
func describe(prefix string, err error) string {
	switch {
	case errors.Is(err, domain.ErrAuth):
		return prefix + ": tu sesión no es válida o expiró"
	case errors.Is(err, domain.ErrNotFound):
		return prefix + ": el producto no existe"
	case errors.Is(err, domain.ErrNetwork):
		return prefix + ": no se pudo conectar con el servidor"
	case errors.Is(err, domain.ErrParse):
		return prefix + ": respuesta inválida del servidor"
	default:
		var statusErr *domain.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.Message != "" {
			return prefix + ": " + statusErr.Message
		}
		return prefix
	}
}

// validationMessage picks the message for a draft that failed validation.
func validationMessage(verr *domain.ValidationError) string {
	if len(verr.Fields) == 1 && verr.Fields[0] == domain.FieldImage {
		return msgMissingImage
	}
	if verr.Reason != "required" && verr.Has(domain.FieldPrice) {
		return msgInvalidPrice
	}
	return msgMissingFields
}

func errorNote(msg string) domain.Notification {
	return domain.Notification{Level: domain.LevelError, Message: msg}
}

func successNote(msg string) domain.Notification {
	return domain.Notification{Level: domain.LevelSuccess, Message: msg}
}
