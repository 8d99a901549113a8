// Package pullrequest models a code-review pull request whose body carries the
// messages of the commits it contains. Anything that needs the hosting service
// goes through a Generator.
package pullrequest

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Notwinner0/prbody/internal/body"
)

// ErrNoGenerator is returned by operations that need a hosting service when none is attached.
var ErrNoGenerator = errors.New("no associated pull-request generator")

// Review is the outcome of a review pass.
type Review struct {
	Comment      string
	Approve      *bool
	DiffComments map[string]map[int][]string
}

// Update describes changes requested from the hosting service.
type Update struct {
	Opened *bool
}

// ReviewerSet groups the people attached to a pull request.
type ReviewerSet struct {
	Reviewers []Contributor
	Approvers []Contributor
	Blockers  []Contributor
}

// Generator talks to the service hosting pull requests.
type Generator interface {
	Reviewers(pr *PullRequest) (*ReviewerSet, error)
	Update(pr *PullRequest, u Update) (*PullRequest, error)
	Comment(pr *PullRequest, content string) error
	Comments(pr *PullRequest) ([]Comment, error)
	Review(pr *PullRequest, r Review) (*PullRequest, error)
	Statuses(pr *PullRequest) ([]Status, error)
	Diff(pr *PullRequest, comments bool) (string, error)
}

// PullRequest is a single pull request.
type PullRequest struct {
	Number  int
	Title   string
	Body    string
	Commits []body.Commit
	Author  *Contributor
	Head    string
	Base    string
	Draft   bool
	Hash    string
	URL     string

	Metadata  map[string]interface{}
	Generator Generator

	opened    *bool
	merged    bool
	reviewers *ReviewerSet
	comments  []Comment
	statuses  []Status
}

// New builds a pull request, splitting rawBody into free text and commits.
func New(number int, title, rawBody string) *PullRequest {
	pr := &PullRequest{Number: number, Title: title}
	pr.Body, pr.Commits = body.Parse(rawBody)
	return pr
}

// RenderBody renders the free text and commits back into a body.
func (pr *PullRequest) RenderBody(linkify bool) string {
	return body.Create(pr.Body, pr.Commits, linkify)
}

// SetState records what the hosting service reports about the pull request.
func (pr *PullRequest) SetState(opened, merged bool) {
	pr.opened = &opened
	pr.merged = merged
}

// Opened reports whether the pull request is open; known is false until the state has been set.
func (pr *PullRequest) Opened() (opened bool, known bool) {
	if pr.opened == nil {
		return false, false
	}
	return *pr.opened, true
}

// OpenedLabel renders the opened state, "?" when unknown.
func (pr *PullRequest) OpenedLabel() string {
	opened, known := pr.Opened()
	if !known {
		return "?"
	}
	return fmt.Sprint(opened)
}

func (pr *PullRequest) Merged() bool {
	return pr.merged
}

func (pr *PullRequest) Open() (*PullRequest, error) {
	return pr.setOpened(true)
}

func (pr *PullRequest) Close() (*PullRequest, error) {
	return pr.setOpened(false)
}

func (pr *PullRequest) setOpened(want bool) (*PullRequest, error) {
	if opened, known := pr.Opened(); known && opened == want {
		return pr, nil
	}
	if pr.Generator == nil {
		return nil, ErrNoGenerator
	}
	return pr.Generator.Update(pr, Update{Opened: &want})
}

func (pr *PullRequest) loadReviewers() (*ReviewerSet, error) {
	if pr.reviewers == nil && pr.Generator != nil {
		set, err := pr.Generator.Reviewers(pr)
		if err != nil {
			return nil, errors.Wrapf(err, "fetching reviewers of %s", pr)
		}
		pr.reviewers = set
	}
	return pr.reviewers, nil
}

// Reviewers lists everyone asked to review. Without a generator it returns nil.
func (pr *PullRequest) Reviewers() ([]Contributor, error) {
	set, err := pr.loadReviewers()
	if set == nil {
		return nil, err
	}
	return set.Reviewers, nil
}

func (pr *PullRequest) Approvers() ([]Contributor, error) {
	set, err := pr.loadReviewers()
	if set == nil {
		return nil, err
	}
	return set.Approvers, nil
}

func (pr *PullRequest) Blockers() ([]Contributor, error) {
	set, err := pr.loadReviewers()
	if set == nil {
		return nil, err
	}
	return set.Blockers, nil
}

// Comment posts content and drops the cached comments.
func (pr *PullRequest) Comment(content string) (*PullRequest, error) {
	if pr.Generator == nil {
		return nil, ErrNoGenerator
	}
	if err := pr.Generator.Comment(pr, content); err != nil {
		return nil, errors.Wrapf(err, "commenting on %s", pr)
	}
	pr.comments = nil
	return pr, nil
}

func (pr *PullRequest) Comments() ([]Comment, error) {
	if pr.comments == nil && pr.Generator != nil {
		comments, err := pr.Generator.Comments(pr)
		if err != nil {
			return nil, errors.Wrapf(err, "fetching comments of %s", pr)
		}
		pr.comments = comments
	}
	return pr.comments, nil
}

func (pr *PullRequest) Review(r Review) (*PullRequest, error) {
	if pr.Generator == nil {
		return nil, ErrNoGenerator
	}
	return pr.Generator.Review(pr, r)
}

func (pr *PullRequest) Statuses() ([]Status, error) {
	if pr.statuses == nil && pr.Generator != nil {
		statuses, err := pr.Generator.Statuses(pr)
		if err != nil {
			return nil, errors.Wrapf(err, "fetching statuses of %s", pr)
		}
		pr.statuses = statuses
	}
	return pr.statuses, nil
}

func (pr *PullRequest) Diff(comments bool) (string, error) {
	if pr.Generator == nil {
		return "", ErrNoGenerator
	}
	return pr.Generator.Diff(pr, comments)
}

func (pr *PullRequest) String() string {
	if pr.Title == "" {
		return fmt.Sprintf("PR %d", pr.Number)
	}
	return fmt.Sprintf("PR %d | %s", pr.Number, pr.Title)
}
