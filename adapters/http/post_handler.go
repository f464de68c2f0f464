package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	postUC "github.com/khoahotran/devconnect/internal/application/usecase/post"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type PostHandler struct {
	createPostUseCase *postUC.CreatePostUseCase
	listPostsUseCase  *postUC.ListPostsUseCase
	deletePostUseCase *postUC.DeletePostUseCase
}

func NewPostHandler(createUC *postUC.CreatePostUseCase, listUC *postUC.ListPostsUseCase, deleteUC *postUC.DeletePostUseCase) *PostHandler {
	return &PostHandler{
		createPostUseCase: createUC,
		listPostsUseCase:  listUC,
		deletePostUseCase: deleteUC,
	}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	p, err := h.createPostUseCase.Execute(c.Request.Context(), postUC.CreatePostInput{UserID: userID, Text: req.Text})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPostDTO(p))
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.listPostsUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToPostDTOs(posts))
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewNotFound("Post not found", c.Param("id")))
		return
	}

	if err := h.deletePostUseCase.Execute(c.Request.Context(), postUC.DeletePostInput{PostID: postID, UserID: userID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}
