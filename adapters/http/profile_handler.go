package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	githubUC "github.com/khoahotran/devconnect/internal/application/usecase/github"
	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	deleteUseCase  *profileUC.DeleteAccountUseCase
	reposUseCase   *githubUC.ReposUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, deleteUC *profileUC.DeleteAccountUseCase, reposUC *githubUC.ReposUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		deleteUseCase:  deleteUC,
		reposUseCase:   reposUC,
		logger:         log,
	}
}

func mustUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("Token is not valid", nil))
	}
	return userID, ok
}

func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	p, err := h.profileUseCase.GetMine(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req UpsertProfileRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.Upsert(c.Request.Context(), profileUC.UpsertInput{
		UserID: userID,
		Fields: req.ToFields(),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileUseCase.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTOs(profiles))
}

// GetByUser treats an id that cannot be parsed like an unknown user.
func (h *ProfileHandler) GetByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.Error(apperror.NewNotFound("Profile not found", c.Param("user_id")))
		return
	}

	p, err := h.profileUseCase.GetByUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req ExperienceRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	entry, err := req.ToEntry()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.AddExperience(c.Request.Context(), profileUC.AddExperienceInput{UserID: userID, Entry: entry})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

// RemoveExperience: an id that matches no entry, malformed or not, leaves the list as is.
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("exp_id"))
	if err != nil {
		h.GetMine(c)
		return
	}

	p, err := h.profileUseCase.RemoveExperience(c.Request.Context(), profileUC.RemoveEntryInput{UserID: userID, EntryID: entryID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req EducationRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	entry, err := req.ToEntry()
	if err != nil {
		c.Error(err)
		return
	}

	p, err := h.profileUseCase.AddEducation(c.Request.Context(), profileUC.AddEducationInput{UserID: userID, Entry: entry})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	entryID, err := uuid.Parse(c.Param("edu_id"))
	if err != nil {
		h.GetMine(c)
		return
	}

	p, err := h.profileUseCase.RemoveEducation(c.Request.Context(), profileUC.RemoveEntryInput{UserID: userID, EntryID: entryID})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(p))
}

// GitHubRepos writes GitHub's payload through unchanged.
func (h *ProfileHandler) GitHubRepos(c *gin.Context) {
	repos, err := h.reposUseCase.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", repos)
}
