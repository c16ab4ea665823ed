// Package command implements the typed HEOS command catalog: command
// structs grouped by system/player/group/browse, their serialization
// via command/raw, and response parsing/validation.
package command

import (
	"fmt"
	"net/url"
	"strconv"
)

// ErrorId enumerates the HEOS protocol's error code table (§6/§7).
type ErrorId int

const (
	ErrUnrecognizedCommand ErrorId = 1
	ErrInvalidId           ErrorId = 2
	ErrInvalidArguments    ErrorId = 3
	ErrDataNotAvailable    ErrorId = 4
	ErrResourceNotAvailable ErrorId = 5
	ErrInvalidCredentials  ErrorId = 6
	ErrCommandNotExecuted  ErrorId = 7
	ErrUserNotLoggedIn     ErrorId = 8
	ErrParameterOutOfRange ErrorId = 9
	ErrUserNotFound        ErrorId = 10
	ErrInternalError       ErrorId = 11
	ErrSystemError         ErrorId = 12
	ErrProcessingPrevious  ErrorId = 13
	ErrCannotPlay          ErrorId = 14
	ErrNotSupported        ErrorId = 15
	ErrCommandQueueFull    ErrorId = 16
	ErrSkipLimit           ErrorId = 17
)

var errorIdNames = map[ErrorId]string{
	ErrUnrecognizedCommand:  "unrecognized command",
	ErrInvalidId:            "invalid id",
	ErrInvalidArguments:     "invalid arguments",
	ErrDataNotAvailable:     "data not available",
	ErrResourceNotAvailable: "resource not available",
	ErrInvalidCredentials:   "invalid credentials",
	ErrCommandNotExecuted:   "command not executed",
	ErrUserNotLoggedIn:      "user not logged in",
	ErrParameterOutOfRange:  "parameter out of range",
	ErrUserNotFound:         "user not found",
	ErrInternalError:        "internal error",
	ErrSystemError:          "system error",
	ErrProcessingPrevious:   "processing previous command",
	ErrCannotPlay:           "cannot play",
	ErrNotSupported:         "not supported",
	ErrCommandQueueFull:     "command queue full",
	ErrSkipLimit:            "skip limit",
}

// Error is the typed form of a protocol-level failure (heos.result ==
// "fail"). Text and SysErrNo are reflected from the device when
// present; SysErrNo is only meaningful when Id == ErrSystemError.
type Error struct {
	Id       ErrorId
	Text     string
	SysErrNo string
	Unknown  bool
}

func (e *Error) Error() string {
	name, ok := errorIdNames[e.Id]
	if !ok {
		name = "unknown"
	}
	if e.Text != "" {
		return fmt.Sprintf("heos: %s (eid=%d): %s", name, e.Id, e.Text)
	}
	return fmt.Sprintf("heos: %s (eid=%d)", name, e.Id)
}

// Is lets callers test a returned error against a specific ErrorId,
// e.g. errors.Is(err, &command.Error{Id: command.ErrInvalidId}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Id == e.Id
}

// FromMessage parses a heos.message query string on result=fail into
// a typed *Error.
func FromMessage(message string) *Error {
	params, err := url.ParseQuery(message)
	if err != nil {
		return &Error{Unknown: true, Text: message}
	}
	eidStr := params.Get("eid")
	n, err := strconv.Atoi(eidStr)
	if err != nil {
		return &Error{Unknown: true, Text: params.Get("text")}
	}
	id := ErrorId(n)
	_, known := errorIdNames[id]
	return &Error{
		Id:       id,
		Text:     params.Get("text"),
		SysErrNo: params.Get("syserrno"),
		Unknown:  !known,
	}
}

// MalformedResponseError reports that a typed response's required
// field was missing or of the wrong shape.
type MalformedResponseError struct {
	Command string
	Reason  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("command: malformed response to %s: %s", e.Command, e.Reason)
}
