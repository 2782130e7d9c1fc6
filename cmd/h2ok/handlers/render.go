package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
	"sigs.k8s.io/yaml"

	h2ov1 "github.com/h2oai/h2o-kubernetes/api/v1"
	"github.com/h2oai/h2o-kubernetes/internal/cluster"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Width(12)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)
)

// renderDeploySummary produces the styled summary printed after a deploy.
// ready is nil when the command did not wait for the nodes.
func renderDeploySummary(id cluster.Identity, spec h2ov1.H2OSpec, descriptorPath string, ready *int32) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  H2O cluster %s", id.Name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	image := "version " + spec.Version
	if spec.CustomImage != nil {
		image = spec.CustomImage.Image
	}
	row(&b, "Namespace", id.Namespace)
	row(&b, "Nodes", fmt.Sprintf("%d x %d CPU, %s", spec.Nodes, spec.Resources.CPU, spec.Resources.Memory))
	row(&b, "Image", image)
	row(&b, "Descriptor", descriptorPath)
	if ready != nil {
		row(&b, "Ready", okStyle.Render(fmt.Sprintf("%d/%d nodes", *ready, spec.Nodes)))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Run 'h2ok ingress -f %s' to print the cluster address.", descriptorPath)))
	b.WriteString("\n")
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

// writeManifests prints objs as a multi-document YAML stream.
func writeManifests(w io.Writer, objs ...client.Object) error {
	for i, obj := range objs {
		if obj.GetObjectKind().GroupVersionKind().Empty() {
			gvk, err := apiutil.GVKForObject(obj, h2ov1.Scheme)
			if err != nil {
				return err
			}
			obj.GetObjectKind().SetGroupVersionKind(gvk)
		}
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", obj.GetName(), err)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
