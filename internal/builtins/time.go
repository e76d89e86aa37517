package builtins

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"n3reason/internal/ns"
	"n3reason/internal/prover"
	"n3reason/internal/subst"
	"n3reason/internal/term"
)

func parseDateTime(lit term.Term) (time.Time, bool) {
	l, isLit := lit.(*term.Literal)
	if !isLit {
		return time.Time{}, false
	}
	lex, dt, _, err := l.Decompose()
	if err != nil || (dt != term.XSDDateTime && dt != term.XSDDate) {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, lex)
	if err != nil {
		t, err = time.Parse("2006-01-02", lex)
		if err != nil {
			return time.Time{}, false
		}
	}
	return t, true
}

// durationComponents is the parsed form of an xsd:duration lexical,
// used by math:difference's date/dateTime/duration cases (§4.5).
type durationComponents struct {
	negative            bool
	years, months, days int
	hours, minutes      int
	seconds             float64
}

func parseDuration(t term.Term) (durationComponents, bool) {
	l, isLit := t.(*term.Literal)
	if !isLit {
		return durationComponents{}, false
	}
	lex, dt, _, err := l.Decompose()
	if err != nil || dt != term.XSDDuration {
		return durationComponents{}, false
	}
	return parseDurationLexical(lex)
}

// parseDurationLexical parses the "-"? "P" (nY)? (nM)? (nD)?
// ("T" (nH)? (nM)? (nS)?)? subset of xsd:duration that this engine both
// consumes and produces.
func parseDurationLexical(lex string) (durationComponents, bool) {
	var d durationComponents
	if lex == "" {
		return d, false
	}
	if lex[0] == '-' {
		d.negative = true
		lex = lex[1:]
	}
	if !strings.HasPrefix(lex, "P") {
		return d, false
	}
	lex = lex[1:]
	datePart, timePart, hasTime := lex, "", false
	if idx := strings.IndexByte(lex, 'T'); idx >= 0 {
		datePart, timePart, hasTime = lex[:idx], lex[idx+1:], true
	}
	if datePart == "" && (!hasTime || timePart == "") {
		return d, false
	}
	dateFields, err := scanDurationFields(datePart, "YMD")
	if err != nil {
		return d, false
	}
	d.years, d.months, d.days = int(dateFields['Y']), int(dateFields['M']), int(dateFields['D'])
	if hasTime {
		timeFields, err := scanDurationFields(timePart, "HMS")
		if err != nil {
			return d, false
		}
		d.hours, d.minutes, d.seconds = int(timeFields['H']), int(timeFields['M']), timeFields['S']
	}
	return d, true
}

// scanDurationFields scans consecutive <number><unit> segments whose
// units must appear in the relative order given by allowedUnits, each
// at most once (the ISO-8601 duration grammar's field ordering).
func scanDurationFields(s, allowedUnits string) (map[byte]float64, error) {
	out := map[byte]float64{}
	nextAllowed := 0
	for len(s) > 0 {
		i := 0
		for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
			i++
		}
		if i == 0 || i >= len(s) {
			return nil, fmt.Errorf("builtins: malformed duration segment %q", s)
		}
		val, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return nil, err
		}
		unit := s[i]
		pos := strings.IndexByte(allowedUnits[nextAllowed:], unit)
		if pos < 0 {
			return nil, fmt.Errorf("builtins: unexpected duration unit %q", string(unit))
		}
		nextAllowed += pos + 1
		out[unit] = val
		s = s[i+1:]
	}
	return out, nil
}

// negateDuration flips a duration's sign, used to turn "shift forward
// by d" into "shift backward by d" for math:difference's
// dateTime-minus-duration case.
func negateDuration(d durationComponents) durationComponents {
	d.negative = !d.negative
	return d
}

// applyDuration shifts t by d in UTC, per §4.5's "shifted by the
// duration in UTC" contract.
func applyDuration(t time.Time, d durationComponents) time.Time {
	sign := 1
	if d.negative {
		sign = -1
	}
	t = t.UTC().AddDate(sign*d.years, sign*d.months, sign*d.days)
	clock := time.Duration(float64(sign) * (float64(d.hours)*3600 + float64(d.minutes)*60 + d.seconds) * float64(time.Second))
	return t.Add(clock)
}

// formatSecondsDuration renders a signed seconds offset as the
// PT<seconds>S subset of xsd:duration produced by math:difference
// between two date/dateTime operands.
func formatSecondsDuration(totalSeconds float64) string {
	sign := ""
	if totalSeconds < 0 {
		sign = "-"
		totalSeconds = -totalSeconds
	}
	return sign + "PT" + strconv.FormatFloat(totalSeconds, 'f', -1, 64) + "S"
}

func addTime(table map[string]prover.BuiltinFunc) {
	field := func(extract func(t time.Time) int64) prover.BuiltinFunc {
		return func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
			t, isOK := parseDateTime(goal.Subject)
			if !isOK {
				return fail()
			}
			return unifyBind(goal.Object, numericTerm(ctx.Interner, term.Numeric{Datatype: term.XSDInteger, Int: big.NewInt(extract(t))}))
		}
	}
	table[ns.Q(ns.Time, "year")] = field(func(t time.Time) int64 { return int64(t.Year()) })
	table[ns.Q(ns.Time, "month")] = field(func(t time.Time) int64 { return int64(t.Month()) })
	table[ns.Q(ns.Time, "day")] = field(func(t time.Time) int64 { return int64(t.Day()) })
	table[ns.Q(ns.Time, "hour")] = field(func(t time.Time) int64 { return int64(t.Hour()) })
	table[ns.Q(ns.Time, "minute")] = field(func(t time.Time) int64 { return int64(t.Minute()) })
	table[ns.Q(ns.Time, "second")] = field(func(t time.Time) int64 { return int64(t.Second()) })

	table[ns.Q(ns.Time, "timeZone")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		t, isOK := parseDateTime(goal.Subject)
		if !isOK {
			return fail()
		}
		name, _ := t.Zone()
		return unifyBind(goal.Object, stringTerm(ctx.Interner, name))
	}

	table[ns.Q(ns.Time, "localTime")] = func(ctx *prover.Context, goal term.Triple, s subst.Subst) ([]subst.Subst, error) {
		if ctx.Now == nil {
			return fail()
		}
		now := ctx.Now()
		return unifyBind(goal.Object, ctx.Interner.Typed(now.UTC().Format(time.RFC3339), term.XSDDateTime))
	}
}
