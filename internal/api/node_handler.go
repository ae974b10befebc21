package api

import (
	"net/http"
	"sort"
)

// ListNodeTypes возвращает каталог зарегистрированных типов узлов.
// GET /api/v1/nodes
func (h *Handler) ListNodeTypes(w http.ResponseWriter, r *http.Request) {
	types := h.registry.Types()

	result := make([]NodeTypeResponse, 0, len(types))
	for _, typ := range types {
		result = append(result, h.describeType(typ))
	}

	List(w, result, len(result))
}

// GetNodeType возвращает описание одного типа узла.
// GET /api/v1/nodes/{type}
func (h *Handler) GetNodeType(w http.ResponseWriter, r *http.Request) {
	typ := r.PathValue("type")
	if !h.registry.Has(typ) {
		NotFound(w, "node type not found")
		return
	}

	Success(w, h.describeType(typ))
}

// describeType строит описание типа: метаданные и порты.
func (h *Handler) describeType(typ string) NodeTypeResponse {
	meta, _ := h.registry.Meta(typ)

	resp := NodeTypeResponse{
		Type:        typ,
		Category:    meta.Category,
		Description: meta.Description,
		Inputs:      []PortResponse{},
		Outputs:     []PortResponse{},
	}

	// Порты объявляет операция; создаём временный узел, чтобы их прочитать.
	n, err := h.registry.NewNode(typ, "probe", nil)
	if err != nil {
		return resp
	}

	for _, port := range n.Inputs() {
		resp.Inputs = append(resp.Inputs, PortResponse{
			Name:        port.Name,
			Type:        string(port.Type),
			Required:    port.Required,
			Default:     port.Default,
			Description: port.Description,
		})
	}
	for _, port := range n.Outputs() {
		resp.Outputs = append(resp.Outputs, PortResponse{
			Name:        port.Name,
			Type:        string(port.Type),
			Description: port.Description,
		})
	}

	sortPorts(resp.Inputs)
	sortPorts(resp.Outputs)

	return resp
}

func sortPorts(ports []PortResponse) {
	sort.Slice(ports, func(i, j int) bool {
		return ports[i].Name < ports[j].Name
	})
}
