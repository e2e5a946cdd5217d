// internal/handlers/schema.go
package handlers

import (
	"log/slog"
	"net/http"
	"reflect"
	"slices"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/internal/workers"
)

// SchemaHandler serves JSON schemas for request and response bodies
type SchemaHandler struct {
	schemas map[string]*jsonschema.Schema
	logger  *slog.Logger
}

// NewSchemaHandler reflects every published schema once
func NewSchemaHandler(logger *slog.Logger) *SchemaHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    mapType,
	}

	types := map[string]interface{}{
		"open_draft":    ports.OpenDraftParams{},
		"scan_request":  ScanRequest{},
		"reason":        ReasonRequest{},
		"discount":      DiscountRequest{},
		"draft":         domain.Draft{},
		"scan_result":   ports.ScanResult{},
		"batch_result":  ports.BatchScanResult{},
		"submit_result": ports.SubmitResult{},
		"diff_report":   domain.DiffReport{},
		"import_job":    workers.ImportJob{},
	}

	schemas := make(map[string]*jsonschema.Schema, len(types))
	for name, v := range types {
		schemas[name] = reflector.Reflect(v)
	}

	return &SchemaHandler{
		schemas: schemas,
		logger:  logger.With(slog.String("handler", "schema")),
	}
}

var (
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

func mapType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case uuidType:
		return &jsonschema.Schema{Type: "string", Format: "uuid"}
	case decimalType:
		return &jsonschema.Schema{Type: "string", Pattern: `^-?\d+(\.\d+)?$`}
	}
	return nil
}

// Names lists the published schema names in order
func (h *SchemaHandler) Names() []string {
	names := make([]string, 0, len(h.schemas))
	for name := range h.schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Schema handles GET /api/v1/schemas/{name}
func (h *SchemaHandler) Schema(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	schema, ok := h.schemas[name]
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":     "Unknown schema",
			"available": h.Names(),
		})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	respondJSON(w, http.StatusOK, schema)
}
