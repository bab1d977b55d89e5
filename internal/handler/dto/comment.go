package dto

import "github.com/tasknest/tasknest/internal/model"

// CommentSaveRequest is the body of POST /todos/{todoId}/comments.
type CommentSaveRequest struct {
	Contents string `json:"contents"`
}

// Validate checks required fields.
func (r CommentSaveRequest) Validate() error {
	return required(r.Contents, "contents")
}

// CommentResponse is a comment together with its author.
type CommentResponse struct {
	ID       int64         `json:"id"`
	Contents string        `json:"contents"`
	User     *UserResponse `json:"user"`
}

// ToCommentResponse converts a comment.
func ToCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		ID:       comment.ID,
		Contents: comment.Contents,
		User:     ToUserResponse(comment.User),
	}
}

// ToCommentResponses converts a list of comments, never returning nil.
func ToCommentResponses(comments []*model.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = ToCommentResponse(c)
	}
	return out
}
