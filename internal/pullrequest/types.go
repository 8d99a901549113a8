package pullrequest

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAuthor    = errors.New("invalid comment author")
	ErrInvalidTimestamp = errors.New("invalid comment timestamp")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Contributor is a person taking part in a review.
type Contributor struct {
	Name   string   `json:"name"`
	Emails []string `json:"emails,omitempty"`
}

func (c Contributor) String() string {
	if len(c.Emails) == 0 || c.Emails[0] == c.Name {
		return c.Name
	}
	return fmt.Sprintf("%s <%s>", c.Name, c.Emails[0])
}

// Comment is a single comment on a pull request.
type Comment struct {
	Author    *Contributor
	Timestamp int64
	Content   string
}

// NewComment builds a comment from loosely typed service data. author may be a
// Contributor, a map with "name" and "emails" keys, or an email address;
// timestamp may be an integer or a string of digits.
func NewComment(author, timestamp interface{}, content string) (*Comment, error) {
	a, err := toContributor(author)
	if err != nil {
		return nil, err
	}
	ts, err := toTimestamp(timestamp)
	if err != nil {
		return nil, err
	}
	return &Comment{Author: a, Timestamp: ts, Content: content}, nil
}

func (c *Comment) String() string {
	when := "-"
	if c.Timestamp != 0 {
		when = time.Unix(c.Timestamp, 0).UTC().Format("2006-01-02 15:04:05 MST")
	}
	author := "None"
	if c.Author != nil {
		author = c.Author.String()
	}
	return fmt.Sprintf("(%s @ %s) %s", author, when, c.Content)
}

func toContributor(author interface{}) (*Contributor, error) {
	switch a := author.(type) {
	case nil:
		return nil, nil
	case Contributor:
		return &a, nil
	case *Contributor:
		return a, nil
	case string:
		if a == "" {
			return nil, nil
		}
		if strings.Contains(a, "@") {
			return &Contributor{Name: a, Emails: []string{a}}, nil
		}
	case map[string]interface{}:
		name, _ := a["name"].(string)
		if name == "" {
			break
		}
		c := &Contributor{Name: name}
		switch emails := a["emails"].(type) {
		case []string:
			c.Emails = emails
		case []interface{}:
			for _, e := range emails {
				if s, ok := e.(string); ok {
					c.Emails = append(c.Emails, s)
				}
			}
		}
		return c, nil
	}
	return nil, errors.Wrapf(ErrInvalidAuthor, "expected a contributor, got %v", author)
}

func toTimestamp(timestamp interface{}) (int64, error) {
	if timestamp == nil {
		return 0, nil
	}
	if s, ok := timestamp.(string); ok {
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 || strings.TrimLeft(s, "0123456789") != "" {
			return 0, errors.Wrapf(ErrInvalidTimestamp, "expected an integer, got %q", s)
		}
		return n, nil
	}

	v := reflect.ValueOf(timestamp)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), nil
	}
	return 0, errors.Wrapf(ErrInvalidTimestamp, "expected an integer, got %v", timestamp)
}

// Status values a check may report.
const (
	StatusError   = "error"
	StatusFailure = "failure"
	StatusPending = "pending"
	StatusSuccess = "success"
)

// Status is the state of one check run against a pull request.
type Status struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// NewStatus validates status before building a Status.
func NewStatus(name, status, description, url string) (*Status, error) {
	switch status {
	case StatusError, StatusFailure, StatusPending, StatusSuccess:
	default:
		return nil, errors.Wrapf(ErrInvalidStatus, "got %q", status)
	}
	return &Status{Name: name, Status: status, Description: description, URL: url}, nil
}

func (s *Status) String() string {
	return fmt.Sprintf("Status(name=%q, status=%q, url=%q)", orUnknown(s.Name), s.Status, orUnknown(s.URL))
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
