package docset

import (
	"fmt"
	"slices"
	"strings"
)

// Language is a programming language an index entry can belong to.
type Language string

const (
	Swift Language = "swift"
	ObjC  Language = "objc"
)

// Languages lists every supported language in a stable order.
var Languages = []Language{Swift, ObjC}

// Marker returns the value Dash stores in <dash_entry_language=...> tags.
func (l Language) Marker() string {
	if l == ObjC {
		return "occ"
	}
	return string(l)
}

// DisplayName is the human-readable language name.
func (l Language) DisplayName() string {
	if l == ObjC {
		return "Objective-C"
	}
	return "Swift"
}

// ParseLanguage validates a command-line language value.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Languages, l) {
		return "", fmt.Errorf("invalid language %q (possible values: %s)", s, joinLanguages(Languages))
	}
	return l, nil
}

func joinLanguages(ls []Language) string {
	parts := make([]string, len(ls))
	for i, l := range ls {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

// Platform is an Apple platform an API can be available on.
type Platform string

const (
	IOS     Platform = "ios"
	MacOS   Platform = "macos"
	WatchOS Platform = "watchos"
	TvOS    Platform = "tvos"
)

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{IOS, MacOS, WatchOS, TvOS}

// ParsePlatform validates a command-line platform value.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Platforms, p) {
		parts := make([]string, len(Platforms))
		for i, pl := range Platforms {
			parts[i] = string(pl)
		}
		return "", fmt.Errorf("invalid platform %q (possible values: %s)", s, strings.Join(parts, ", "))
	}
	return p, nil
}

// Display returns the capitalization used by the documents' own
// availability annotations: a trailing "os" is upper-cased.
func (p Platform) Display() string {
	if prefix, ok := strings.CutSuffix(string(p), "os"); ok {
		return prefix + "OS"
	}
	return string(p)
}

// DisplayNames maps platforms to their display forms, preserving order.
func DisplayNames(platforms []Platform) []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Display()
	}
	return names
}

// BundleName is the final name of the filtered docset directory,
// e.g. "iOS_macOS_API_Reference.docset".
func BundleName(platforms []Platform) string {
	return strings.Join(DisplayNames(platforms), "_") + "_API_Reference.docset"
}

// BundleDisplayName is the CFBundleName written into Info.plist.
func BundleDisplayName(platforms []Platform) string {
	return strings.Join(DisplayNames(platforms), "/") + " API Reference"
}

// PlatformFamily is the DocSetPlatformFamily written into Info.plist.
// Dash shows a Finder icon for the "osx" family.
func PlatformFamily(platforms []Platform) string {
	switch {
	case len(platforms) == 1 && platforms[0] == MacOS:
		return "osx"
	case len(platforms) == 1:
		return string(platforms[0])
	default:
		return "hyphen"
	}
}
