package handler

import (
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type healthcheckResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Time    string `json:"time"`
}

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		body := healthcheckResponse{
			Status:  "ok",
			Service: "ads-warehouse-sync",
			Time:    time.Now().UTC().Format(time.RFC3339),
		}

		if err := jsoniter.NewEncoder(w).Encode(body); err != nil {
			logrus.WithError(err).Warn("Falha ao responder o healthcheck")
		}
	})
}
