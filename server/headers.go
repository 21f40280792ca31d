package server

import (
	"fmt"
	"net/http"
)

// alerts writes the notification headers the front end displays after a
// mutation or a rejected request. Header names carry the application name.
type alerts struct {
	application string
}

func (a alerts) alert(w http.ResponseWriter, message, param string) {
	w.Header().Set(fmt.Sprintf("X-%s-alert", a.application), message)
	w.Header().Set(fmt.Sprintf("X-%s-params", a.application), param)
}

func (a alerts) created(w http.ResponseWriter, entityName, id string) {
	a.alert(w, fmt.Sprintf("A new %s is created with identifier %s", entityName, id), id)
}

func (a alerts) updated(w http.ResponseWriter, entityName, id string) {
	a.alert(w, fmt.Sprintf("A %s is updated with identifier %s", entityName, id), id)
}

func (a alerts) deleted(w http.ResponseWriter, entityName, id string) {
	a.alert(w, fmt.Sprintf("A %s is deleted with identifier %s", entityName, id), id)
}

func (a alerts) failure(w http.ResponseWriter, entityName, errorKey string) {
	w.Header().Set(fmt.Sprintf("X-%s-error", a.application), "error."+errorKey)
	w.Header().Set(fmt.Sprintf("X-%s-params", a.application), entityName)
}
