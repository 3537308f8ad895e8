package drivefs

import (
	"context"
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/gdocs"
	"google.golang.org/api/drive/v3"
)

const (
	replyFields   = "id,content,action,createdTime,author(displayName)"
	commentFields = "id,content,resolved,createdTime,modifiedTime,author(displayName),quotedFileContent(value),replies(" + replyFields + ")"
)

// Comment is a discussion thread anchored in a document.
type Comment struct {
	ID       string  `json:"id"`
	Author   string  `json:"author,omitempty"`
	Content  string  `json:"content"`
	Quoted   string  `json:"quoted,omitempty"`
	Created  string  `json:"created,omitempty"`
	Modified string  `json:"modified,omitempty"`
	Resolved bool    `json:"resolved"`
	Replies  []Reply `json:"replies,omitempty"`
}

// Reply is one answer in a comment thread.
type Reply struct {
	ID      string `json:"id"`
	Author  string `json:"author,omitempty"`
	Content string `json:"content,omitempty"`
	Action  string `json:"action,omitempty"`
	Created string `json:"created,omitempty"`
}

func author(u *drive.User) string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}

func fromDriveReply(r *drive.Reply) Reply {
	return Reply{ID: r.Id, Author: author(r.Author), Content: r.Content, Action: r.Action, Created: r.CreatedTime}
}

func fromDriveComment(c *drive.Comment) Comment {
	out := Comment{
		ID:       c.Id,
		Author:   author(c.Author),
		Content:  c.Content,
		Created:  c.CreatedTime,
		Modified: c.ModifiedTime,
		Resolved: c.Resolved,
	}
	if c.QuotedFileContent != nil {
		out.Quoted = c.QuotedFileContent.Value
	}
	for _, r := range c.Replies {
		if r != nil {
			out.Replies = append(out.Replies, fromDriveReply(r))
		}
	}
	return out
}

func requireText(what, s string) error {
	if strings.TrimSpace(s) == "" {
		return docerr.New(docerr.KindInvalidArgument, "%s must not be empty", what)
	}
	return nil
}

// ListComments returns the non-deleted comments on a document, following
// pagination until every thread is collected.
func (s *Service) ListComments(ctx context.Context, documentID string, includeResolved bool) ([]Comment, error) {
	if err := requireID("document", documentID); err != nil {
		return nil, err
	}
	svc, err := s.client(ctx, documentID)
	if err != nil {
		return nil, err
	}
	var out []Comment
	err = svc.Comments.List(documentID).
		Fields("nextPageToken,comments("+commentFields+")").
		PageSize(100).
		Pages(ctx, func(page *drive.CommentList) error {
			for _, c := range page.Comments {
				if c == nil || (c.Resolved && !includeResolved) {
					continue
				}
				out = append(out, fromDriveComment(c))
			}
			return nil
		})
	if err != nil {
		return nil, gdocs.Classify(err, documentID)
	}
	return out, nil
}

// GetComment returns one comment thread.
func (s *Service) GetComment(ctx context.Context, documentID, commentID string) (Comment, error) {
	if err := requireID("document", documentID); err != nil {
		return Comment{}, err
	}
	if err := requireID("comment", commentID); err != nil {
		return Comment{}, err
	}
	svc, err := s.client(ctx, documentID)
	if err != nil {
		return Comment{}, err
	}
	c, err := svc.Comments.Get(documentID, commentID).Fields(commentFields).Context(ctx).Do()
	if err != nil {
		return Comment{}, gdocs.Classify(err, documentID)
	}
	return fromDriveComment(c), nil
}

// AddComment starts a new thread. quoted, when set, is shown as the text
// the comment refers to.
func (s *Service) AddComment(ctx context.Context, documentID, content, quoted string) (Comment, error) {
	if err := requireID("document", documentID); err != nil {
		return Comment{}, err
	}
	if err := requireText("comment", content); err != nil {
		return Comment{}, err
	}
	svc, err := s.client(ctx, documentID)
	if err != nil {
		return Comment{}, err
	}
	meta := &drive.Comment{Content: content}
	if quoted != "" {
		meta.QuotedFileContent = &drive.CommentQuotedFileContent{MimeType: MimePlain, Value: quoted}
	}
	c, err := svc.Comments.Create(documentID, meta).Fields(commentFields).Context(ctx).Do()
	if err != nil {
		return Comment{}, gdocs.Classify(err, documentID)
	}
	return fromDriveComment(c), nil
}

// ReplyToComment adds a reply to a thread.
func (s *Service) ReplyToComment(ctx context.Context, documentID, commentID, content string) (Reply, error) {
	if err := requireText("reply", content); err != nil {
		return Reply{}, err
	}
	return s.reply(ctx, documentID, commentID, &drive.Reply{Content: content})
}

// ResolveComment marks a thread resolved, with an optional closing note.
func (s *Service) ResolveComment(ctx context.Context, documentID, commentID, note string) (Reply, error) {
	return s.reply(ctx, documentID, commentID, &drive.Reply{Action: "resolve", Content: note})
}

func (s *Service) reply(ctx context.Context, documentID, commentID string, r *drive.Reply) (Reply, error) {
	if err := requireID("document", documentID); err != nil {
		return Reply{}, err
	}
	if err := requireID("comment", commentID); err != nil {
		return Reply{}, err
	}
	svc, err := s.client(ctx, documentID)
	if err != nil {
		return Reply{}, err
	}
	out, err := svc.Replies.Create(documentID, commentID, r).Fields(replyFields).Context(ctx).Do()
	if err != nil {
		return Reply{}, gdocs.Classify(err, documentID)
	}
	return fromDriveReply(out), nil
}

// DeleteComment removes a thread.
func (s *Service) DeleteComment(ctx context.Context, documentID, commentID string) error {
	if err := requireID("document", documentID); err != nil {
		return err
	}
	if err := requireID("comment", commentID); err != nil {
		return err
	}
	svc, err := s.client(ctx, documentID)
	if err != nil {
		return err
	}
	if err := svc.Comments.Delete(documentID, commentID).Context(ctx).Do(); err != nil {
		return gdocs.Classify(err, documentID)
	}
	return nil
}
