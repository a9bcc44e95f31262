package assistant

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type commandKind int

const (
	kindHelp commandKind = iota + 1
	kindAdjustSKU
	kindAdjustID
	kindQuerySKU
	kindQueryID
	kindAdjustAll
	kindCountLow
	kindCountAll
)

var kindNames = map[commandKind]string{
	kindHelp:      "help",
	kindAdjustSKU: "adjust_sku",
	kindAdjustID:  "adjust_id",
	kindQuerySKU:  "query_sku",
	kindQueryID:   "query_id",
	kindAdjustAll: "adjust_all",
	kindCountLow:  "count_low_stock",
	kindCountAll:  "count_all",
}

func (k commandKind) String() string {
	return kindNames[k]
}

type operation string

const (
	opIncrease operation = "subir"
	opDecrease operation = "bajar"
	opSet      operation = "poner"
)

// command is one parsed instruction.
type command struct {
	kind   commandKind
	op     operation
	sku    string
	id     uuid.UUID
	amount int
}

var (
	punctuation = strings.NewReplacer("¿", " ", "?", " ", "¡", " ", "!", " ", ".", " ")

	synonyms = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\b(?:aumentar|incrementar|sumar|agregar|añadir)\b`), string(opIncrease)},
		{regexp.MustCompile(`\b(?:disminuir|reducir|restar|quitar|descontar)\b`), string(opDecrease)},
		{regexp.MustCompile(`\b(?:establecer|fijar|setear|cambiar|actualizar)\b`), string(opSet)},
		{regexp.MustCompile(`\b(?:repuestos|articulos|artículos)\b`), "productos"},
	}
)

const (
	verbs  = `(subir|bajar|poner)`
	amount = `(?:(?:a|en|por) )?(\d+)(?: unidades)?`
	target = `(?:(?:el|la) )?stock (?:(?:de|del) )?`
)

var patterns = []struct {
	kind commandKind
	re   *regexp.Regexp
}{
	{kindHelp, regexp.MustCompile(`^(?:ayuda|help|comandos)$`)},
	{kindAdjustSKU, regexp.MustCompile(`^` + verbs + ` ` + target + `sku (\S+) ` + amount + `$`)},
	{kindAdjustID, regexp.MustCompile(`^` + verbs + ` ` + target + `id ([0-9a-f-]{36}) ` + amount + `$`)},
	{kindAdjustAll, regexp.MustCompile(`^` + verbs + ` ` + target + `(?:todos|todo)(?: los productos)? ` + amount + `$`)},
	{kindQuerySKU, regexp.MustCompile(`^(?:(?:ver|consultar|mostrar) )?` + target + `sku (\S+)$`)},
	{kindQueryID, regexp.MustCompile(`^(?:(?:ver|consultar|mostrar) )?` + target + `id ([0-9a-f-]{36})$`)},
	{kindCountLow, regexp.MustCompile(`^(?:(?:cu[aá]ntos|total(?: de)?) )?productos (?:con|en|de) (?:el )?stock bajo(?: hay)?$`)},
	{kindCountAll, regexp.MustCompile(`^(?:cu[aá]ntos productos(?: hay)?|total(?: de)? productos|cantidad de productos)$`)},
}

// normalize lower-cases, strips punctuation, rewrites synonyms and collapses
// whitespace.
func normalize(message string) string {
	text := strings.ToLower(message)
	text = punctuation.Replace(text)
	text = strings.Join(strings.Fields(text), " ")
	for _, s := range synonyms {
		text = s.re.ReplaceAllString(text, s.repl)
	}
	return text
}

// parse returns the command for message, or false when nothing matches.
func parse(message string) (command, bool) {
	text := normalize(message)
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cmd := command{kind: p.kind}
		var err error
		switch p.kind {
		case kindAdjustSKU:
			cmd.op, cmd.sku = operation(m[1]), m[2]
			cmd.amount, err = parseAmount(m[3])
		case kindAdjustID:
			cmd.op = operation(m[1])
			if cmd.id, err = uuid.Parse(m[2]); err == nil {
				cmd.amount, err = parseAmount(m[3])
			}
		case kindAdjustAll:
			cmd.op = operation(m[1])
			cmd.amount, err = parseAmount(m[2])
		case kindQuerySKU:
			cmd.sku = m[1]
		case kindQueryID:
			cmd.id, err = uuid.Parse(m[1])
		}
		if err != nil {
			return command{}, false
		}
		return cmd, true
	}
	return command{}, false
}

// maxStock bounds both amounts and results to the stock column range.
const maxStock = math.MaxInt32

func parseAmount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n > maxStock {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// apply computes the new stock for op, clamping at zero.
func apply(op operation, current, n int) int {
	switch op {
	case opIncrease:
		return current + n
	case opDecrease:
		if current-n < 0 {
			return 0
		}
		return current - n
	default:
		return n
	}
}
