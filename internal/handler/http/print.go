package http

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/counterdesk/pkg/httputil"
)

// The receipt markup comes from the caixa backend and is trusted as-is.
var printPage = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Pedido #{{.OrderID}}</title>
<style>
body { font-family: monospace; font-size: 12px; margin: 0; padding: 8px; }
@media print { body { padding: 0; } }
</style>
</head>
<body onload="window.print()">
{{.Markup}}
</body>
</html>
`))

type printData struct {
	OrderID string
	Markup  template.HTML
}

// PrintReceipt handles GET /api/v1/sessions/{sid}/orders/{orderId}/receipt/print
// and serves a printable page wrapping the backend receipt.
func (h *SessionHandler) PrintReceipt(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())

	receipt, err := ws.Receipt(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var buf bytes.Buffer
	if err := printPage.Execute(&buf, printData{
		OrderID: receipt.OrderID.String(),
		Markup:  template.HTML(receipt.Markup),
	}); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
