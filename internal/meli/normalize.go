package meli

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/lukman83/autolot/internal/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// details collects the attributes pulled from an item's attribute bag.
type details struct {
	brand, engine, displacement, transmission, fuel *string
	year, km, doors                                 *int
}

// attributeField maps a set of attribute ids/names to one slot in details.
type attributeField struct {
	tags   []string
	assign func(d *details, raw string)
}

// attributeFields is tried in order for every attribute. Each slot keeps the
// first attribute that yields a value; later duplicates are ignored.
var attributeFields = []attributeField{
	{[]string{"BRAND", "MARCA"}, func(d *details, raw string) { setText(&d.brand, raw) }},
	{[]string{"VEHICLE_YEAR", "YEAR", "AÑO"}, func(d *details, raw string) { setDigits(&d.year, raw) }},
	{[]string{"KILOMETERS", "KILÓMETROS", "KILOMETROS"}, func(d *details, raw string) { setDigits(&d.km, raw) }},
	{[]string{"ENGINE", "MOTOR"}, func(d *details, raw string) { setText(&d.engine, raw) }},
	{[]string{"ENGINE_DISPLACEMENT", "CILINDRADA"}, func(d *details, raw string) { setText(&d.displacement, raw) }},
	{[]string{"TRANSMISSION", "TRANSMISIÓN", "TRANSMISION", "CAJA"}, func(d *details, raw string) { setText(&d.transmission, raw) }},
	{[]string{"FUEL_TYPE", "TIPO DE COMBUSTIBLE", "COMBUSTIBLE"}, func(d *details, raw string) { setText(&d.fuel, raw) }},
	{[]string{"DOORS", "PUERTAS"}, func(d *details, raw string) { setDigits(&d.doors, raw) }},
}

func (f attributeField) matches(id, name string) bool {
	for _, tag := range f.tags {
		if id == tag || name == tag {
			return true
		}
	}
	return false
}

func extractDetails(attrs []Attribute) details {
	var d details
	for _, a := range attrs {
		id := strings.ToUpper(strings.TrimSpace(a.ID))
		name := strings.ToUpper(strings.TrimSpace(a.Name))
		raw := strings.TrimSpace(a.ValueName)
		for _, f := range attributeFields {
			if f.matches(id, name) {
				f.assign(&d, raw)
				break
			}
		}
	}
	return d
}

func setText(dst **string, raw string) {
	if *dst != nil || raw == "" {
		return
	}
	*dst = &raw
}

func setDigits(dst **int, raw string) {
	if *dst != nil {
		return
	}
	if n, ok := digitsOnly(raw); ok {
		*dst = &n
	}
}

// digitsOnly parses "45.000 km" as 45000. Anything without digits is not a number.
func digitsOnly(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// Normalize maps one marketplace item onto the catalog's Vehicle shape.
func Normalize(item Item, syncedAt time.Time) models.Vehicle {
	d := extractDetails(item.Attributes)

	motor := d.engine
	if motor == nil {
		motor = d.displacement
	}

	currency := strings.ToUpper(strings.TrimSpace(item.CurrencyID))
	if currency == "" {
		currency = models.CurrencyFromPrice(item.Price)
	}

	title := strings.TrimSpace(item.Title)
	return models.Vehicle{
		ID:           item.ID,
		Title:        title,
		Brand:        d.brand,
		Year:         d.year,
		Price:        item.Price,
		Currency:     currency,
		Slug:         Slugify(title),
		Permalink:    item.Permalink,
		Pictures:     CanonicalPictures(item.Pictures),
		Km:           d.km,
		Motor:        motor,
		Transmission: d.transmission,
		Fuel:         d.fuel,
		Doors:        d.doors,
		SyncedAt:     syncedAt,
	}
}

// transliterations covers letters with no canonical decomposition, which
// stripping combining marks would otherwise drop.
var transliterations = strings.NewReplacer(
	"ø", "o", "ß", "ss", "æ", "ae", "œ", "oe", "đ", "d", "ð", "d",
	"ł", "l", "þ", "th", "ı", "i", "&", "and",
)

// Slugify turns "Peugeot 208 1.6 Féline" into "peugeot-208-16-feline".
func Slugify(title string) string {
	s := transliterations.Replace(strings.ToLower(title))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	var b strings.Builder
	hyphen := true // suppresses leading hyphens
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			hyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !hyphen {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

var sizeSuffix = regexp.MustCompile(`(?i)-[a-z]\.(jpe?g|png|webp)$`)

// CanonicalPictureURL forces https and the original-size "-O" variant.
// Returns "" when the input is not a usable image URL.
func CanonicalPictureURL(raw string) string {
	u := strings.TrimSpace(raw)
	switch {
	case u == "":
		return ""
	case strings.HasPrefix(u, "//"):
		u = "https:" + u
	case len(u) >= 7 && strings.EqualFold(u[:7], "http://"):
		u = "https://" + u[7:]
	}
	if len(u) < 8 || !strings.EqualFold(u[:8], "https://") {
		return ""
	}
	return sizeSuffix.ReplaceAllString(u, "-O.$1")
}

// CanonicalPictures keeps source order; the first entry is the cover image.
func CanonicalPictures(pics []Picture) []string {
	out := make([]string, 0, len(pics))
	for _, p := range pics {
		raw := p.SecureURL
		if strings.TrimSpace(raw) == "" {
			raw = p.URL
		}
		if u := CanonicalPictureURL(raw); u != "" {
			out = append(out, u)
		}
	}
	return out
}
