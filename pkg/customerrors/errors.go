/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package customerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type BusinessError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrUnauthorized        = NewBusinessError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = NewBusinessError(http.StatusForbidden, "forbidden")
	ErrInvalidParams       = NewBusinessError(http.StatusBadRequest, "invalid params")
	ErrNotFound            = NewBusinessError(http.StatusNotFound, "not found")
	ErrInternalServerError = NewBusinessError(http.StatusInternalServerError, "internal server error")

	ErrInvalidCredentials = NewBusinessError(http.StatusUnauthorized, "invalid username or password")
	ErrNotLoggedIn        = NewBusinessError(http.StatusUnauthorized, "not logged in")
	ErrUnknownResource    = NewBusinessError(http.StatusNotFound, "unknown resource")
	ErrInvalidFilter      = NewBusinessError(http.StatusBadRequest, "invalid where expression")
	ErrAlreadyExists      = NewBusinessError(http.StatusConflict, "already exists")
	ErrInsufficientStock  = NewBusinessError(http.StatusConflict, "insufficient stock")

	ErrCartEmpty        = NewBusinessError(http.StatusBadRequest, "cart is empty")
	ErrCartItemNotFound = NewBusinessError(http.StatusNotFound, "cart item not found")
)

// ErrDecode marks a response body that could not be read into the expected value.
var ErrDecode = errors.New("failed to decode response body")

// HTTPError is returned by the transport for any non-2xx response.
type HTTPError struct {
	Status     int
	StatusText string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.StatusText)
}

func NewHTTPError(status int, statusText, body string) *HTTPError {
	return &HTTPError{
		Status:     status,
		StatusText: statusText,
		Message:    body,
	}
}

func GetBusinessError(err error) *BusinessError {
	if err == nil {
		return nil
	}
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}

func GetHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

func IsNotFound(err error) bool {
	if httpErr := GetHTTPError(err); httpErr != nil {
		return httpErr.Status == http.StatusNotFound
	}
	if bizErr := GetBusinessError(err); bizErr != nil {
		return bizErr.Code == http.StatusNotFound
	}
	return false
}

// InvalidParams wraps a validation failure so callers can match ErrInvalidParams.
func InvalidParams(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidParams, err)
}
