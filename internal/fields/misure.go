package fields

import "math"

// ComputeMisure calcola superficie e volume occupati da un lotto.
// Dimensioni mancanti valgono 0, numero colli mancante vale 1.
//
//	m2 = lunghezza * larghezza * colli
//	m3 = lunghezza * larghezza * altezza * colli
//
// entrambi arrotondati a 3 decimali. Va richiamata ogni volta che cambia uno
// dei quattro input, mai lasciare m2/m3 stantii.
func ComputeMisure(lunghezza, larghezza, altezza *float64, nColli *int) (m2, m3 float64) {
	l := valOrZero(lunghezza)
	w := valOrZero(larghezza)
	h := valOrZero(altezza)
	c := 1.0
	if nColli != nil {
		c = float64(*nColli)
	}
	m2 = round3(l * w * c)
	m3 = round3(l * w * h * c)
	return m2, m3
}

func valOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
