package model

import (
	"errors"
	"strings"
)

var ErrInvalidSource = errors.New("model: invalid source")

// Source names one external feed the panel polls.
type Source string

const (
	SourceGitHub Source = "github"
	SourceGmail  Source = "gmail"
)

func (s Source) IsValid() bool {
	switch s {
	case SourceGitHub, SourceGmail:
		return true
	default:
		return false
	}
}

// ExternalItem is one fetched issue or message. Only the ID survives a poll
// cycle; title and detail exist for display and notification bodies.
type ExternalItem struct {
	ID     string
	Title  string
	Detail string
}

func (i ExternalItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("model: external item id is required")
	}
	return nil
}

// Summary is the one-line form used in notification bodies.
func (i ExternalItem) Summary() string {
	title := strings.TrimSpace(i.Title)
	if title == "" {
		return i.ID
	}
	detail := strings.TrimSpace(i.Detail)
	if detail == "" {
		return title
	}
	return title + " - " + detail
}
