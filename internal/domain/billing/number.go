package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextInvoiceNumber genera el consecutivo a partir del número de la última
// factura insertada. Formato: INV-YYYYMMDD-NNNN (fecha de creación, secuencia
// global con padding a 4 dígitos).
//
// El segmento numérico es lo que sigue al último '-'; si last está vacío o el
// segmento no es numérico, la secuencia parte de 0 (la primera factura recibe
// -0001). La unicidad real la garantiza el constraint único de la DB: el
// caso de uso reintenta la transacción completa ante una colisión.
func NextInvoiceNumber(last string, now time.Time) string {
	seq := 0
	if i := strings.LastIndex(last, "-"); i >= 0 {
		if n, err := strconv.Atoi(last[i+1:]); err == nil {
			seq = n
		}
	}
	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), seq+1)
}
