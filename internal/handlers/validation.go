package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/flaskr/pkg/errors"
	"github.com/charlesng35/flaskr/pkg/response"
	appValidator "github.com/charlesng35/flaskr/pkg/validator"
)

const invalidFormMessage = "invalid form submission"

// ruleMessages maps a validator tag to the sentence shown for it. %s is the
// field, %p the rule parameter.
var ruleMessages = map[string]string{
	"required":               "%s is required",
	appValidator.TagNotBlank: "%s is required",
	"max":                    "%s must be at most %p characters",
}

// bindForm binds a urlencoded or multipart form into dest and validates it.
// On failure a 400 envelope has been written and false is returned.
func bindForm[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBind(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(invalidFormMessage).WithInternal(err))
		return false
	}
	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest(describeValidation(err)))
		return false
	}
	return true
}

func describeValidation(err error) string {
	var failures appValidator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return invalidFormMessage
	}

	messages := make([]string, 0, len(failures))
	for _, failure := range failures {
		field := strings.ToLower(strings.ReplaceAll(failure.Field, "_", " "))
		if field == "" {
			field = "field"
		}
		tmpl, ok := ruleMessages[failure.Tag]
		if !ok {
			tmpl = "%s failed validation: " + failure.Tag
			if failure.Param != "" {
				tmpl += "=%p"
			}
		}
		messages = append(messages, strings.NewReplacer("%s", field, "%p", failure.Param).Replace(tmpl))
	}
	return strings.Join(messages, "; ")
}
