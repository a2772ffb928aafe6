package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/warp/arl-calculator/arl"
	"github.com/warp/arl-calculator/ledger"
)

// NotificationType is the visual category of a notification.
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyWarning NotificationType = "warning"
	NotifyInfo    NotificationType = "info"
)

// Notification is the one-line message the widget shows after an action.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

func groupAdded(g arl.EmployeeGroup) Notification {
	return Notification{
		Type:    NotifySuccess,
		Message: fmt.Sprintf("Group of %s employee(s) added successfully", arl.FormatNumber(int64(g.EmployeeCount))),
	}
}

func groupRemoved(g arl.EmployeeGroup) Notification {
	return Notification{
		Type:    NotifyInfo,
		Message: fmt.Sprintf("Group of %s employee(s) removed", arl.FormatNumber(int64(g.EmployeeCount))),
	}
}

func ledgerCleared(n int) Notification {
	return Notification{Type: NotifyInfo, Message: fmt.Sprintf("%d group(s) removed", n)}
}

func scenarioLoaded(s ScenarioDTO) Notification {
	return Notification{Type: NotifySuccess, Message: fmt.Sprintf("Scenario %q loaded", s.Name)}
}

// failure maps a core error to its HTTP status and notification.
//
//	validation         400 error
//	duplicate pair     409 warning
//	unknown group      404 warning
//	empty ledger       422 warning
//	anything else      500 error
func failure(err error, action string) (int, Notification) {
	var vErr *arl.ValidationError
	switch {
	case arl.IsDuplicate(err), errors.Is(err, ledger.ErrDuplicateGroup):
		return http.StatusConflict, Notification{
			Type:    NotifyWarning,
			Message: "A group with the same salary and risk class already exists",
		}
	case errors.As(err, &vErr):
		return http.StatusBadRequest, Notification{Type: NotifyError, Message: capitalize(vErr.Message)}
	case ledger.IsNotFound(err):
		return http.StatusNotFound, Notification{Type: NotifyWarning, Message: "Group not found"}
	case errors.Is(err, ledger.ErrLedgerEmpty):
		return http.StatusUnprocessableEntity, Notification{Type: NotifyWarning, Message: emptyMessage(action)}
	default:
		return http.StatusInternalServerError, Notification{Type: NotifyError, Message: fmt.Sprintf("Error while %s", action)}
	}
}

func emptyMessage(action string) string {
	if action == actionClear {
		return "There are no groups to remove"
	}
	return "There is no data to export"
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
