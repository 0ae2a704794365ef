package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns validator errors into one client-facing sentence.
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return "invalid request body"
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(messages, "; ")
}

type credentialsRequest struct {
	Name     string `json:"name,omitempty" validate:"max=128"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// postMessageRequest leaves content unchecked: the content policy of the
// chat service is the only content rule, shared by every transport.
type postMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,max=128"`
	Content    string `json:"content"`
}

type createConversationRequest struct {
	ParticipantID string `json:"participant_id" validate:"required,max=128"`
}

type tokenResponse struct {
	Token string `json:"token"`
}
