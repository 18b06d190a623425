package repository

import (
	"fmt"
	"sort"
	"strings"

	"gestionale-magazzino/internal/fields"
	"gestionale-magazzino/internal/models"
)

// Filtro descrive una ricerca sugli articoli: i parametri liberi arrivati dal
// form più il ruolo del chiamante. Per il ruolo client l'identità è il nome
// del cliente e la restrizione di riga è implicita.
type Filtro struct {
	Ruolo     string
	Utente    string
	Parametri map[string]string
}

// BuildWhere traduce il filtro in una clausola WHERE congiuntiva con i
// relativi argomenti posizionali, partendo da firstArg.
//
// Regole:
//   - ruolo client: filtro di uguaglianza case-insensitive sul cliente,
//     applicato per primo e non scavalcabile dai parametri utente;
//   - suffisso _da/_a su un campo data: intervallo >= / <=, clausola saltata
//     in silenzio se la data non è parsabile;
//   - id: uguaglianza esatta sull'intero, saltata se non parsabile;
//   - ogni altro campo noto: contains case-insensitive (ILIKE);
//   - chiavi sconosciute e valori vuoti: ignorati.
func BuildWhere(filtro *Filtro, firstArg int) (string, []any) {
	var clausole []string
	var args []any
	arg := firstArg

	if filtro.Ruolo == models.RuoloClient {
		clausole = append(clausole, fmt.Sprintf("LOWER(cliente) = LOWER($%d)", arg))
		args = append(args, filtro.Utente)
		arg++
	}

	for _, key := range chiaviOrdinate(filtro.Parametri) {
		value := strings.TrimSpace(filtro.Parametri[key])
		if value == "" {
			continue
		}
		// Il client non può scavalcare la restrizione sul proprio cliente
		if filtro.Ruolo == models.RuoloClient && key == "cliente" {
			continue
		}

		if campo, op, ok := intervalloData(key); ok {
			data := fields.ParseDate(value)
			if data == nil {
				continue
			}
			clausole = append(clausole, fmt.Sprintf("%s %s $%d", campo, op, arg))
			args = append(args, *data)
			arg++
			continue
		}

		if key == "id" {
			id := fields.ParseInt(value)
			if id == nil {
				continue
			}
			clausole = append(clausole, fmt.Sprintf("id = $%d", arg))
			args = append(args, *id)
			arg++
			continue
		}

		if _, noto := fields.Descrittori[key]; !noto {
			continue
		}
		clausole = append(clausole, fmt.Sprintf("%s::text ILIKE $%d", key, arg))
		args = append(args, "%"+value+"%")
		arg++
	}

	if len(clausole) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clausole, " AND "), args
}

// intervalloData riconosce i limiti di intervallo sulle colonne data:
// "<campo>_da" → >= e "<campo>_a" → <=.
func intervalloData(key string) (campo, op string, ok bool) {
	for _, suffisso := range []struct {
		s  string
		op string
	}{{"_da", ">="}, {"_a", "<="}} {
		base := strings.TrimSuffix(key, suffisso.s)
		if base == key {
			continue
		}
		if kind, noto := fields.Descrittori[base]; noto && kind == fields.KindDate {
			return base, suffisso.op, true
		}
	}
	return "", "", false
}

// chiaviOrdinate ritorna le chiavi in ordine stabile: la WHERE generata deve
// essere deterministica a parità di parametri.
func chiaviOrdinate(parametri map[string]string) []string {
	keys := make([]string, 0, len(parametri))
	for key := range parametri {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
