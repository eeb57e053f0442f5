package clock

import "time"

// Clock abstrae la fuente de tiempo para que los casos de uso no dependan de time.Now.
// La numeración de facturas y las ventanas de estadísticas usan siempre un Clock inyectado.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System devuelve el reloj real del sistema.
func System() Clock { return systemClock{} }

// Fixed devuelve un reloj congelado en t (para tests).
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
