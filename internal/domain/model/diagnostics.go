package model

import (
	"fmt"
	"strings"
)

// Tool identifies a diagnostic form.
type Tool string

const (
	ToolPing       Tool = "ping"
	ToolPortScan   Tool = "port-scan"
	ToolTraceroute Tool = "traceroute"
)

// Tools lists every diagnostic in display order.
var Tools = []Tool{ToolPing, ToolPortScan, ToolTraceroute}

// Title is the human label of the tool.
func (t Tool) Title() string {
	switch t {
	case ToolPing:
		return "Ping"
	case ToolPortScan:
		return "Port Scan"
	case ToolTraceroute:
		return "Traceroute"
	default:
		return string(t)
	}
}

// NeedsPort reports whether the tool takes a port.
func (t Tool) NeedsPort() bool { return t == ToolPortScan }

// Prompt is shown instead of sending a request with an empty host.
func (t Tool) Prompt() string {
	switch t {
	case ToolPing:
		return "Please enter a host to ping."
	case ToolPortScan:
		return "Please enter a host to scan."
	default:
		return "Please enter a host to trace."
	}
}

// ParseTool maps a form or route name to a Tool.
func ParseTool(s string) (Tool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ping":
		return ToolPing, true
	case "port-scan", "port_scan", "portscan", "scan":
		return ToolPortScan, true
	case "traceroute", "trace":
		return ToolTraceroute, true
	}
	return "", false
}

// DiagnosticRequest is the body of every diagnostic POST.
type DiagnosticRequest struct {
	Host string `json:"host"`
	Port string `json:"port,omitempty"`
}

// Validate trims the input and rejects an empty host, or an empty port for
// tools that need one.
func (r DiagnosticRequest) Validate(tool Tool) (DiagnosticRequest, error) {
	r.Host = strings.TrimSpace(r.Host)
	r.Port = strings.TrimSpace(r.Port)
	if r.Host == "" {
		return r, fmt.Errorf("%w: host", ErrMissingInput)
	}
	if !tool.NeedsPort() {
		r.Port = ""
		return r, nil
	}
	if r.Port == "" {
		return r, fmt.Errorf("%w: port", ErrMissingInput)
	}
	return r, nil
}

// Ping statuses.
const (
	PingOnline  = "online"
	PingOffline = "offline"
	PingError   = "error"
)

// PingResult is the normalised ping response.
type PingResult struct {
	Host   string
	Status string
	Time   string
	IP     string
	Output string
	Error  string
	// Min, Avg and Max are set by deployments that report round-trip statistics.
	Min, Avg, Max string
}

type pingWire struct {
	Host      Text    `json:"host"`
	Status    *string `json:"status"`
	Success   *bool   `json:"success"`
	Time      Text    `json:"time"`
	IP        string  `json:"ip"`
	RawOutput *string `json:"raw_output"`
	Output    *string `json:"output"`
	Raw       *string `json:"raw"`
	Error     string  `json:"error"`
	Min       Text    `json:"min"`
	Avg       Text    `json:"avg"`
	Max       Text    `json:"max"`
}

// DecodePingResult parses a ping response. A status (or the boolean success
// flag) is required; output is read from raw_output, output or raw, in that order.
func DecodePingResult(data []byte) (PingResult, error) {
	var w pingWire
	if err := decode("ping", data, &w); err != nil {
		return PingResult{}, err
	}

	res := PingResult{
		Host:   string(w.Host),
		Time:   string(w.Time),
		IP:     w.IP,
		Output: firstOf(w.RawOutput, w.Output, w.Raw),
		Error:  w.Error,
		Min:    string(w.Min),
		Avg:    string(w.Avg),
		Max:    string(w.Max),
	}
	switch {
	case w.Status != nil && strings.TrimSpace(*w.Status) != "":
		res.Status = strings.ToLower(strings.TrimSpace(*w.Status))
	case w.Success != nil && *w.Success:
		res.Status = PingOnline
	case w.Success != nil:
		res.Status = PingOffline
	default:
		return PingResult{}, missing("ping", "status")
	}
	return res, nil
}

// Port states.
const (
	PortOpen   = "open"
	PortClosed = "closed"
)

// PortScanResult is the normalised port-scan response.
type PortScanResult struct {
	Host    string
	Port    string
	Status  string
	Service string
}

// Open reports whether the port answered.
func (r PortScanResult) Open() bool { return r.Status == PortOpen }

type portScanWire struct {
	Host    Text    `json:"host"`
	Port    Text    `json:"port"`
	Status  *string `json:"status"`
	Open    *bool   `json:"open"`
	Service string  `json:"service"`
}

// DecodePortScanResult parses a port-scan response. Either status or the
// boolean open flag is required.
func DecodePortScanResult(data []byte) (PortScanResult, error) {
	var w portScanWire
	if err := decode("port-scan", data, &w); err != nil {
		return PortScanResult{}, err
	}

	res := PortScanResult{Host: string(w.Host), Port: string(w.Port), Service: w.Service}
	switch {
	case w.Status != nil && strings.TrimSpace(*w.Status) != "":
		res.Status = strings.ToLower(strings.TrimSpace(*w.Status))
	case w.Open != nil && *w.Open:
		res.Status = PortOpen
	case w.Open != nil:
		res.Status = PortClosed
	default:
		return PortScanResult{}, missing("port-scan", "status")
	}
	return res, nil
}

// TracerouteResult is the normalised traceroute response.
type TracerouteResult struct {
	Output string
}

type tracerouteWire struct {
	Output *string `json:"output"`
	Raw    *string `json:"raw"`
}

// DecodeTracerouteResult parses a traceroute response; output or raw is required.
func DecodeTracerouteResult(data []byte) (TracerouteResult, error) {
	var w tracerouteWire
	if err := decode("traceroute", data, &w); err != nil {
		return TracerouteResult{}, err
	}
	if w.Output == nil && w.Raw == nil {
		return TracerouteResult{}, missing("traceroute", "output")
	}
	return TracerouteResult{Output: firstOf(w.Output, w.Raw)}, nil
}

func firstOf(vals ...*string) string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
