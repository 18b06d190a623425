package fields

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Formati data accettati dai form: ISO prima, poi i due formati europei.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006"}

// ParseFloat converte testo utente in float tollerando sia la virgola che il
// punto come separatore decimale. Ritorna nil su input vuoto o non numerico,
// mai un errore: i valori assenti degradano a NULL.
func ParseFloat(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseInt converte via ParseFloat arrotondando all'intero più vicino.
func ParseInt(raw string) *int {
	f := ParseFloat(raw)
	if f == nil {
		return nil
	}
	i := int(math.Round(*f))
	return &i
}

// ParseDate prova i formati in ordine e si ferma al primo che combacia.
// Ritorna nil se nessun formato combacia o l'input è vuoto.
func ParseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
