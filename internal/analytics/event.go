// Package analytics turns tracking beacons from the public site into stored events.
package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lukman83/autolot/internal/models"
)

// DefaultSalt is used when ANALYTICS_SALT is not configured.
const DefaultSalt = "dev_salt_change_me"

var (
	ErrEmptyBody        = errors.New("empty_body")
	ErrInvalidEventType = errors.New("invalid_event_type")
)

// AllowedEvents is the closed set of event types the site may send.
var AllowedEvents = map[string]bool{
	"page_view":      true,
	"vehicle_view":   true,
	"whatsapp_click": true,
	"call_click":     true,
	"maps_click":     true,
	"share_click":    true,
}

// Client is what the server knows about the sender, outside the body.
type Client struct {
	IP        string
	UserAgent string
}

// Builder creates events with a fixed salt and clock.
type Builder struct {
	salt  string
	now   func() time.Time
	newID func() string
}

func NewBuilder(salt string) *Builder {
	if salt == "" {
		salt = DefaultSalt
	}
	return &Builder{salt: salt, now: time.Now, newID: uuid.NewString}
}

// Build parses a raw beacon body. Any id in the body is ignored.
func (b *Builder) Build(raw []byte, client Client) (models.Event, error) {
	var body map[string]any
	if len(strings.TrimSpace(string(raw))) == 0 || json.Unmarshal(raw, &body) != nil || body == nil {
		return models.Event{}, ErrEmptyBody
	}

	eventType, _ := body["event_type"].(string)
	if !AllowedEvents[eventType] {
		return models.Event{}, ErrInvalidEventType
	}

	meta, err := metaJSON(body["meta"])
	if err != nil {
		return models.Event{}, fmt.Errorf("encode meta: %w", err)
	}

	ev := models.Event{
		ID:          b.newID(),
		Type:        eventType,
		Path:        text(body["path"]),
		SessionID:   text(body["session_id"]),
		VehicleID:   text(body["vehicle_id"]),
		VehicleSlug: text(body["vehicle_slug"]),
		Phone:       text(body["phone"]),
		Location:    text(body["location"]),
		Referrer:    text(body["referrer"]),
		UTMSource:   text(body["utm_source"]),
		UTMMedium:   text(body["utm_medium"]),
		UTMCampaign: text(body["utm_campaign"]),
		Meta:        meta,
		CreatedAt:   b.now().UTC(),
	}
	ev.ReferrerDomain = ReferrerDomain(ev.Referrer)
	if client.UserAgent != "" {
		ev.UserAgent = &client.UserAgent
	}
	if client.IP != "" {
		h := HashIP(b.salt, client.IP)
		ev.IPHash = &h
	}
	return ev, nil
}

// HashIP returns hex(sha256(salt + ":" + ip)). Raw addresses are never stored.
func HashIP(salt, ip string) string {
	sum := sha256.Sum256([]byte(salt + ":" + ip))
	return hex.EncodeToString(sum[:])
}

// ClientIP picks the first X-Forwarded-For hop, then X-Real-IP.
func ClientIP(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	return strings.TrimSpace(realIP)
}

// ReferrerDomain reduces a referrer URL to its lowercase host without "www.".
// It returns nil when there is no usable host.
func ReferrerDomain(referrer *string) *string {
	if referrer == nil {
		return nil
	}
	u, err := url.Parse(strings.TrimSpace(*referrer))
	if err != nil {
		return nil
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return nil
	}
	return &host
}

func text(v any) *string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return &t
	case float64, bool:
		s := fmt.Sprint(t)
		return &s
	default:
		return nil
	}
}

// metaJSON always yields a JSON object: missing meta is {}, objects pass
// through, and any other value is wrapped as {"value": ...}. Scalars are
// stringified; arrays keep their JSON form.
func metaJSON(v any) (json.RawMessage, error) {
	switch m := v.(type) {
	case nil:
		return json.RawMessage(`{}`), nil
	case map[string]any:
		return json.Marshal(m)
	case []any:
		return json.Marshal(map[string]any{"value": m})
	case string:
		if m == "" {
			return json.RawMessage(`{}`), nil
		}
		return json.Marshal(map[string]string{"value": m})
	default:
		return json.Marshal(map[string]string{"value": fmt.Sprint(m)})
	}
}
