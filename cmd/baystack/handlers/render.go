package handlers

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/baystack/internal/bay"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	progressStyle = lipgloss.NewStyle().
			Foreground(colorBlue)
)

// statusStyle colors a status by its outcome.
func statusStyle(s bay.Status) lipgloss.Style {
	switch {
	case s.IsFailed():
		return failStyle
	case s.IsComplete():
		return okStyle
	default:
		return progressStyle
	}
}

func renderBays(w io.Writer, bays []*bay.Bay) {
	if len(bays) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No bays."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-36s  %-20s  %-5s  %-20s  %s", "UUID", "NAME", "NODES", "STATUS", "API ADDRESS")))
	for _, b := range bays {
		nodes := "-"
		if b.NodeCount != nil {
			nodes = strconv.Itoa(*b.NodeCount)
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-5s  %s  %s\n",
			b.UUID, b.Name, nodes,
			statusStyle(b.Status).Render(fmt.Sprintf("%-20s", b.Status)),
			b.APIAddress,
		)
	}
}

func renderBay(w io.Writer, b *bay.Bay) {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Bay " + b.Name))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 40)))
	sb.WriteString("\n")

	field(&sb, "UUID", b.UUID)
	field(&sb, "BayModel", b.BayModelID)
	field(&sb, "Stack", b.StackID)
	if b.NodeCount != nil {
		field(&sb, "Nodes", strconv.Itoa(*b.NodeCount))
	}
	fmt.Fprintf(&sb, "  %-14s %s\n", "Status", statusStyle(b.Status).Render(b.Status.String()))
	field(&sb, "Reason", b.StatusReason)
	field(&sb, "API address", b.APIAddress)
	field(&sb, "Node addresses", strings.Join(b.NodeAddresses, ", "))
	field(&sb, "Discovery URL", b.DiscoveryURL)

	fmt.Fprint(w, sb.String())
}

func renderBayModels(w io.Writer, list []*bay.ClusterTemplate) {
	if len(list) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No baymodels."))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-36s  %-20s  %-10s  %s", "UUID", "NAME", "COE", "IMAGE")))
	for _, t := range list {
		fmt.Fprintf(w, "%-36s  %-20s  %-10s  %s\n", t.UUID, t.Name, t.COE, t.ImageID)
	}
}

func renderBayModel(w io.Writer, t *bay.ClusterTemplate) {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("BayModel " + t.Name))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 40)))
	sb.WriteString("\n")

	field(&sb, "UUID", t.UUID)
	field(&sb, "COE", string(t.COE))
	field(&sb, "Distro", t.ClusterDistro)
	field(&sb, "Image", t.ImageID)
	field(&sb, "Flavor", t.FlavorID)
	field(&sb, "Master flavor", t.MasterFlavorID)
	field(&sb, "Keypair", t.KeypairID)
	field(&sb, "External net", t.ExternalNetworkID)
	field(&sb, "Fixed network", t.FixedNetwork)
	field(&sb, "DNS", t.DNSNameserver)
	if t.DockerVolumeSize != nil {
		field(&sb, "Docker volume", fmt.Sprintf("%d GB", *t.DockerVolumeSize))
	}

	fmt.Fprint(w, sb.String())
}

// field writes one aligned key/value line, skipping empty values.
func field(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "  %-14s %s\n", name, value)
}
