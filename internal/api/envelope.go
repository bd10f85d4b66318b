package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ubuygold/recordkeeper/internal/auth"
	"github.com/ubuygold/recordkeeper/internal/model"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

const (
	MissingUsernameMessage = "Oops! You forgot to add a username after! Please specify a username and try again!"
	UsernameTooLongMessage = "The username you are trying to register is too long! Please use at most 255 characters and try again!"
	UsernameUsedMessage    = "The username you are trying to register has been already used!"
	KeyCreatedMessage      = "Congrats! Your API Key has been created!"

	MissingIDMessage      = "Oops! You forgot to add a number after! Please specify a number and try again!"
	EmptyRecordMessage    = "Please populate atleast one field into the record and try again!"
	InvalidBodyMessage    = "The request body is not valid JSON! Please fix it and try again!"
	RecordCreatedMessage  = "Your entry has successfully been added to the database!"
	RecordFoundMessage    = "Record found!"
	RecordNotFoundMessage = "The record does not exist! Please try a different record number!"
	RecordUpdatedMessage  = "Your record has successfully been modified!"
	RecordRemovedMessage  = "Your record has been removed!"
)

// Envelope is the response shape shared by every /api endpoint.
type Envelope struct {
	Status     string        `json:"status"`
	Message    string        `json:"message"`
	RecordInfo *model.Record `json:"record_info,omitempty"`
	Username   string        `json:"username,omitempty"`
	APIKey     string        `json:"api_key,omitempty"`
	CreatedOn  string        `json:"created_on,omitempty"`
}

func success(c *gin.Context, code int, env Envelope) {
	env.Status = StatusSuccess
	c.JSON(code, env)
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Status: StatusFailed, Message: message})
}

func internalError(c *gin.Context) {
	fail(c, http.StatusInternalServerError, auth.InternalErrorMessage)
}
