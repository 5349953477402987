package settings

import (
	"database/sql"
	"fmt"

	"github.com/subvocab/subvocab/pkg/db"
)

// Key identifies one configuration value.
type Key string

// Site-wide keys and the value type each one carries.
const (
	KeySiteAnnouncement      Key = "site_announcement"
	KeyUploadLimitBytes      Key = "upload_limit_bytes"
	KeyAllowAnonymousUploads Key = "allow_anonymous_uploads"
)

// Type tags the value variant a setting holds. Dispatch is always on this
// explicit tag, never on runtime inspection of the value fields.
type Type int

const (
	TypeString Type = iota + 1
	TypeInt
	TypeBool
)

// keyTypes maps each known key to the value type it must carry.
var keyTypes = map[Key]Type{
	KeySiteAnnouncement:      TypeString,
	KeyUploadLimitBytes:      TypeInt,
	KeyAllowAnonymousUploads: TypeBool,
}

// siteKeys are the keys responsible for the configuration of the site.
var siteKeys = []Key{
	KeySiteAnnouncement,
	KeyUploadLimitBytes,
	KeyAllowAnonymousUploads,
}

// Setting is a tagged union over the supported value types; only the field
// selected by Type is meaningful.
type Setting struct {
	Key    Key
	Type   Type
	String string
	Int    int64
	Bool   bool
}

// filled reports whether the setting carries a persistable value for its type.
func (s Setting) filled() bool {
	switch s.Type {
	case TypeString:
		return s.String != ""
	case TypeInt:
		return s.Int != 0
	case TypeBool:
		return true // false is a valid stored value
	}
	return false
}

// emptyByKey creates a new empty setting with the specified key and its
// mapped type tag.
func emptyByKey(key Key) Setting {
	return Setting{Key: key, Type: keyTypes[key]}
}

// Service is the settings layer over the SQLite store.
type Service struct {
	DB *sql.DB
}

// SiteSetting returns the site-wide setting for key. The second result is
// false when the setting has never been filled.
func (s *Service) SiteSetting(key Key) (Setting, bool, error) {
	row, err := db.GetSetting(s.DB, string(key), db.SiteOwnerID)
	if err == sql.ErrNoRows {
		return emptyByKey(key), false, nil
	}
	if err != nil {
		return Setting{}, false, err
	}
	return fromRow(row), true, nil
}

// UnfilledSiteSettings lists the site keys that have no stored value yet,
// as empty settings carrying the expected type tag.
func (s *Service) UnfilledSiteSettings() ([]Setting, error) {
	stored, err := db.GetSettings(s.DB, db.SiteOwnerID)
	if err != nil {
		return nil, err
	}
	var unfilled []Setting
	for _, key := range siteKeys {
		if _, ok := stored[string(key)]; !ok {
			unfilled = append(unfilled, emptyByKey(key))
		}
	}
	return unfilled, nil
}

// InsertSiteSettings persists the given settings, skipping entries that are
// unfilled or whose type tag does not match the key's declared type.
// It returns the number of settings persisted.
func (s *Service) InsertSiteSettings(list []Setting) (int, error) {
	saved := 0
	for _, setting := range list {
		want, known := keyTypes[setting.Key]
		if !known {
			return saved, fmt.Errorf("unknown setting key %q", setting.Key)
		}
		if setting.Type != want || !setting.filled() {
			continue
		}
		if err := db.UpsertSetting(s.DB, toRow(setting, db.SiteOwnerID)); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func fromRow(row db.SettingRow) Setting {
	return Setting{
		Key:    Key(row.Key),
		Type:   Type(row.Type),
		String: row.StringValue,
		Int:    row.IntValue,
		Bool:   row.BoolValue,
	}
}

func toRow(s Setting, ownerID int64) db.SettingRow {
	return db.SettingRow{
		Key:         string(s.Key),
		OwnerID:     ownerID,
		Type:        int(s.Type),
		StringValue: s.String,
		IntValue:    s.Int,
		BoolValue:   s.Bool,
	}
}
