package web

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

func writeFileHeaders(w http.ResponseWriter, name, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func writeFile(w http.ResponseWriter, in io.Reader, name, contentType string) {
	writeFileHeaders(w, name, contentType)
	if _, err := io.Copy(w, in); err != nil {
		log.Printf("[web] Error when writing file %q: %v", name, err)
	}
}

func writeJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeResult(w, res)
}

func writeResult(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		log.Printf("[web] Error when writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, merr := json.Marshal(&jError{Error: err.Error()})
	if merr != nil {
		log.Printf("[web] Error marshaling error '%v': %v", err, merr)
		http.Error(w, err.Error(), status)
		return
	}
	log.Printf("HERR: %v", string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeResult(w, data)
}
