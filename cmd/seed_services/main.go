// seed_services genera un script SQL para poblar el catálogo de servicios
// de la clínica a partir de un CSV exportado (Servicios.csv). Las exportaciones
// suelen venir en ISO-8859-1, por eso el CSV se transcodifica a UTF-8.
//
// Formato esperado: nombre;descripcion;precio;categoria (con cabecera).
//
// Uso: go run ./cmd/seed_services [ruta/Servicios.csv]
// Por defecto busca Servicios.csv en el directorio actual.
// Escribe: migrations/002_seed_services.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type servicio struct {
	nombre      string
	descripcion string
	precio      decimal.Decimal
	categoria   string
}

func main() {
	csvPath := "Servicios.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var servicios []servicio
	for i, rec := range records {
		if i == 0 { // cabecera
			continue
		}
		if len(rec) < 3 {
			continue
		}
		nombre := strings.TrimSpace(rec[0])
		if nombre == "" {
			continue
		}
		precio, err := decimal.NewFromString(strings.TrimSpace(rec[2]))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Fila %d: precio inválido %q, se omite\n", i+1, rec[2])
			continue
		}
		s := servicio{
			nombre:      nombre,
			descripcion: strings.TrimSpace(rec[1]),
			precio:      precio.Round(2),
		}
		if len(rec) > 3 {
			s.categoria = strings.TrimSpace(rec[3])
		}
		servicios = append(servicios, s)
	}
	if len(servicios) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene servicios válidos")
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "migrations", "002_seed_services.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo inicial de servicios de la clínica\n")
	out.WriteString("-- Generado desde Servicios.csv\n\n")
	for _, s := range servicios {
		fmt.Fprintf(out,
			"INSERT INTO services (id, name, description, price, category, is_active)\n"+
				"VALUES (gen_random_uuid(), '%s', %s, %s, %s, TRUE)\n"+
				"ON CONFLICT DO NOTHING;\n",
			escapeSQL(s.nombre),
			sqlString(s.descripcion),
			s.precio.StringFixed(2),
			sqlString(s.categoria),
		)
	}

	fmt.Printf("Generado %s: %d servicios\n", outPath, len(servicios))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// sqlString devuelve el literal SQL ('...' o NULL si está vacío).
func sqlString(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
