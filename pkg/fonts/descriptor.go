package fonts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FontDescriptor is the stored record of an uploaded web font.
type FontDescriptor struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FileRef     string `json:"fileRef"`
	Family      string `json:"family"`
	Weight      int    `json:"weight"`
	Style       string `json:"style"`
}

const (
	DefaultWeight = 400
	DefaultStyle  = "normal"
)

var validStyles = map[string]bool{
	"normal":  true,
	"italic":  true,
	"oblique": true,
}

// Normalize fills defaults: family falls back to the display name, weight
// to 400 and style to normal.
func (d FontDescriptor) Normalize() FontDescriptor {
	d.DisplayName = strings.TrimSpace(d.DisplayName)
	d.Family = strings.TrimSpace(d.Family)
	d.FileRef = strings.TrimSpace(d.FileRef)
	d.Style = strings.ToLower(strings.TrimSpace(d.Style))
	if d.Family == "" {
		d.Family = d.DisplayName
	}
	if d.Weight == 0 {
		d.Weight = DefaultWeight
	}
	if d.Style == "" {
		d.Style = DefaultStyle
	}
	return d
}

// Validate checks a normalized descriptor.
func (d FontDescriptor) Validate() error {
	switch {
	case d.Family == "":
		return errors.New("family is required")
	case strings.ContainsAny(d.Family, "\"\\;{}"):
		return fmt.Errorf("family %q contains forbidden characters", d.Family)
	case d.FileRef == "":
		return errors.New("fileRef is required")
	case d.Weight < 1 || d.Weight > 1000:
		return fmt.Errorf("weight %d outside 1..1000", d.Weight)
	case !validStyles[d.Style]:
		return fmt.Errorf("style %q is not one of normal, italic, oblique", d.Style)
	}
	return nil
}

// Name identifies the descriptor in errors and logs.
func (d FontDescriptor) Name() string {
	switch {
	case d.DisplayName != "":
		return d.DisplayName
	case d.Family != "":
		return d.Family
	case d.ID != "":
		return d.ID
	}
	return d.FileRef
}

// key is equal for descriptors that would produce the same rule.
func (d FontDescriptor) key() string {
	return d.Family + "|" + strconv.Itoa(d.Weight) + "|" + d.Style + "|" + d.FileRef
}
