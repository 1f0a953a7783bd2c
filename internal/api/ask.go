package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/textsql/textsql/internal/auth"
	"github.com/textsql/textsql/internal/observability"
	"github.com/textsql/textsql/internal/text2sql"
)

const maxAskBodyBytes = 1 << 20

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Response string `json:"response"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Asker == nil {
		writeError(w, http.StatusNotImplemented, "question pipeline is not configured")
		return
	}

	var request askRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBodyBytes))
	if err := decoder.Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer, err := deps.Asker.Ask(r.Context(), request.Question)
	if err != nil {
		if errors.Is(err, text2sql.ErrQuestionRequired) {
			writeError(w, http.StatusBadRequest, "Question is required")
			return
		}
		if deps.Logger != nil {
			deps.Logger.ErrorContext(r.Context(), "ask failed",
				slog.String("trace_id", observability.TraceIDFromContext(r.Context())),
				slog.String("error", err.Error()),
			)
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if deps.Logger != nil {
		attrs := []any{
			slog.String("trace_id", observability.TraceIDFromContext(r.Context())),
			slog.String("synthesis", string(answer.Synthesis.Status)),
			slog.String("execution", string(answer.Execution.Status)),
		}
		if identity, ok := auth.IdentityFromContext(r.Context()); ok {
			attrs = append(attrs, slog.String("client", identity.Client))
		}
		deps.Logger.InfoContext(r.Context(), "question answered", attrs...)
	}
	writeJSON(w, http.StatusOK, askResponse{Response: answer.Response})
}
