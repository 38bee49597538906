package labels

import (
	"fmt"
	"time"
)

var (
	weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	months   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto",
		"septiembre", "octubre", "noviembre", "diciembre"}
)

// DateLine renders t as "lunes 19 de octubre de 2026 a las 4:05 pm".
func DateLine(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "am"
	if t.Hour() >= 12 {
		meridiem = "pm"
	}
	return fmt.Sprintf("%s %d de %s de %d a las %d:%02d %s",
		weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year(), hour, t.Minute(), meridiem)
}

// FileName renders t as "2026_10_19_lunes_04_05_PM_tiquetes.pdf".
func FileName(t time.Time) string {
	return fmt.Sprintf("%s_%s_%s_tiquetes.pdf", t.Format("2006_01_02"), weekdays[t.Weekday()], t.Format("03_04_PM"))
}
