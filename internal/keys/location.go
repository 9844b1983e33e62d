package keys

import (
	"regexp"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
)

// locationRe matches a place name followed by optional parenthesised
// modifiers, e.g. "SAN SALVADOR (CITY)". Repeated modifiers report the last.
var locationRe = regexp.MustCompile(`([\p{L}\p{N}_ ]+)(\([\p{L}\p{N}_]+ ?[\p{L}\p{N}_]*\))*`)

// parseLocation parses an INCIDENT: LOCATION value such as
//
//	EL SALVADOR: SAN SALVADOR (CITY) / SAN MIGUEL (DEPARTMENT)
//
// into one filler per distinct place. A place with a modifier becomes a
// colon clause (place: modifier); a plain place a simple string.
func (p *Parser) parseLocation(docID, value string) ([]*model.Filler, error) {
	var out []*model.Filler
	seen := make(map[string]bool)

	for _, alt := range strings.Split(value, " / ") {
		alt = strings.TrimSpace(alt)
		for _, part := range strings.Split(alt, ":") {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "(") && strings.HasSuffix(part, ")") && len(part) >= 2 {
				part = part[1 : len(part)-1]
			}
			for _, place := range strings.Split(part, "-") {
				place = strings.TrimSpace(place)
				optional := false
				if strings.HasPrefix(place, "? ") {
					optional = true
					place = strings.TrimSpace(place[2:])
				}
				if place == "" {
					continue
				}

				m := locationRe.FindStringSubmatchIndex(place)
				if m == nil {
					return nil, &GrammarError{DocID: docID, Slot: model.SlotIncidentLocation, Value: place, Err: ErrLocation}
				}
				name := p.fixes.FixString(strings.TrimSpace(place[m[2]:m[3]]))
				if name == "" {
					return nil, &GrammarError{DocID: docID, Slot: model.SlotIncidentLocation, Value: place, Err: ErrLocation}
				}

				if m[4] < 0 {
					if seen[name] {
						continue
					}
					seen[name] = true
					f := model.NewSimpleFiller(name)
					f.Optional = optional
					out = append(out, f)
					continue
				}

				modifier := place[m[4]+1 : m[5]-1]
				key := name + "\x00" + modifier
				if seen[key] {
					continue
				}
				seen[key] = true
				f := model.NewColonFiller(model.Alternatives{name}, model.Alternatives{modifier})
				f.Optional = optional
				out = append(out, f)
			}
		}
	}

	return out, nil
}
