// Package telemetry turns the minerator status payload into uniform device
// records.
//
// The payload shape drifts between hardware generations and releases: fields
// appear only on some boards, and several grouping objects are keyed by data
// (an algorithm or worker-group name) rather than by a fixed schema. Normalize
// reads it as a generic, document-ordered JSON tree and pulls every field
// explicitly, so a missing required field is reported with its path instead
// of silently becoming zero.
package telemetry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/minerator/viewerator/internal/errors"
	"github.com/minerator/viewerator/internal/health"
)

// Options configures Normalize.
type Options struct {
	// UnsupportedVersions lists substrings of the minerator label that mark a
	// release this viewer cannot display.
	UnsupportedVersions []string
}

// UnsupportedVersionError reports a minerator release the viewer refuses.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("minerator version %q is not supported", e.Version)
}

// Hardware type codes reported in the device "hwType" field.
const (
	hwTypeBCU = 1
	hwTypeCVP = 2
)

// phaseCount is how many regulator phases a TypeA board reports. Boards with
// a different phase count are not handled.
const phaseCount = 2

// Normalize parses a status payload into a Snapshot. It is a pure function of
// its input. Errors carry errors.ErrParse for malformed payloads and missing
// fields, and errors.ErrVersion (wrapping *UnsupportedVersionError) when the
// minerator release is excluded by opts.
func Normalize(raw []byte, opts Options) (*Snapshot, error) {
	if !sonic.Valid(raw) {
		return nil, errors.New(errors.ErrParse,
			"Status payload is not valid JSON",
			"Check the endpoint returns the minerator status document.")
	}
	root, err := sonic.Get(raw)
	if err == nil {
		err = root.LoadAll()
	}
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			"Status payload is not valid JSON",
			"Check the endpoint returns the minerator status document.")
	}

	doc := object{node: &root}
	if doc.node.Type() != ast.V_OBJECT {
		return nil, parseError("status payload is not an object")
	}

	label, err := doc.str("minerator")
	if err != nil {
		return nil, err
	}
	for _, bad := range opts.UnsupportedVersions {
		if bad != "" && strings.Contains(label, bad) {
			return nil, errors.WrapWithCode(&UnsupportedVersionError{Version: label}, errors.ErrVersion,
				"Unsupported minerator version "+label,
				"Upgrade the minerator, or use a viewerator release made for it.")
		}
	}

	snap := &Snapshot{Minerator: label}

	if group, ok := doc.firstEntryOf("fee"); ok {
		if snap.Fee, err = parseAccounting(group); err != nil {
			return nil, err
		}
	}

	if group, ok := doc.firstEntryOf("worksources"); ok {
		if sources, ok := group.optArray(); ok && len(sources) > 0 {
			if snap.WorkSource, err = parseAccounting(sources[0]); err != nil {
				return nil, err
			}
		}
	}

	if group, ok := doc.firstEntryOf("workers"); ok {
		if devices, ok := group.child("devices"); ok {
			entries, ok := devices.optArray()
			if !ok {
				return nil, parseError(devices.path + " is not an array")
			}
			snap.Devices = make([]Device, 0, len(entries))
			for _, entry := range entries {
				dev, err := parseDevice(entry)
				if err != nil {
					return nil, err
				}
				dev.Fee = snap.Fee
				dev.WorkSource = snap.WorkSource
				snap.Devices = append(snap.Devices, dev)
			}
		}
	}

	return snap, nil
}

// FirstEntry returns the key and value of the first member of a JSON object,
// in document order. The payload uses single-entry grouping objects whose
// key is data (an algorithm or worker-group name); the first entry is the
// group. Nothing in the format guarantees which entry comes first if a
// release ever emits more than one.
func FirstEntry(n *ast.Node) (string, *ast.Node, bool) {
	if n == nil || !n.Exists() || n.Type() != ast.V_OBJECT {
		return "", nil, false
	}
	it, err := n.Properties()
	if err != nil {
		return "", nil, false
	}
	var p ast.Pair
	if !it.Next(&p) {
		return "", nil, false
	}
	value := p.Value
	return p.Key, &value, true
}

func parseDevice(dev object) (Device, error) {
	var d Device
	var err error

	if d.Name, err = dev.str("name"); err != nil {
		return d, err
	}
	d.ID = dev.optStr("dna")
	if d.ID == "" {
		d.ID = dev.optStr("serial")
	}

	bmc, err := dev.object("bmc")
	if err != nil {
		return d, err
	}
	d.Variant = detectVariant(dev, bmc)

	r := &d.Rails
	for _, f := range []struct {
		key string
		dst *Reading
	}{
		{"inputPower", &r.InputPower},
		{"aux12v", &r.Aux12V},
		{"auxCurrent", &r.AuxCurrent},
		{"pex12v", &r.Pex12V},
		{"pexCurrent", &r.PexCurrent},
		{"vccint", &r.VccInt},
		{"vccintCurrent", &r.VccIntCurrent},
	} {
		if *f.dst, err = bmc.reading(f.key, f.key+"Health"); err != nil {
			return d, err
		}
	}

	r.VRCtrlTemp = Reading{Health: health.RampUp}
	for i := range d.Phases {
		d.Phases[i].Temperature.Health = health.RampUp
	}
	if d.Variant == VariantTypeA {
		if r.VRCtrlTemp, err = bmc.reading("vrctrlTemp", "vrctrlTempHealth"); err != nil {
			return d, err
		}
		if d.Phases, err = parsePhases(bmc); err != nil {
			return d, err
		}
	}

	sysmons, err := dev.array("sysmon")
	if err != nil {
		return d, err
	}
	d.Sysmons = make([]Sysmon, 0, len(sysmons))
	for _, s := range sysmons {
		sm, err := parseSysmon(s)
		if err != nil {
			return d, err
		}
		d.Sysmons = append(d.Sysmons, sm)
	}

	cores, err := dev.array("cores")
	if err != nil {
		return d, err
	}
	if len(cores) == 0 {
		return d, parseError(dev.path + ".cores is empty")
	}
	d.Cores = make([]Core, 0, len(cores))
	for _, c := range cores {
		core, err := parseCore(c)
		if err != nil {
			return d, err
		}
		d.Cores = append(d.Cores, core)
	}

	d.WorstHealth = worstHealth(d)
	return d, nil
}

// detectVariant looks the hardware code up first. Boards with an unknown or
// missing code are told apart by the control-regulator temperature, which
// only TypeA boards report.
func detectVariant(dev, bmc object) Variant {
	code, _ := dev.optInt("hwType")
	switch code {
	case hwTypeBCU:
		return VariantTypeA
	case hwTypeCVP:
		return VariantTypeB
	default:
		if bmc.has("vrctrlTemp") {
			return VariantTypeA
		}
		return VariantTypeB
	}
}

func parsePhases(bmc object) ([2]Phase, error) {
	var phases [2]Phase
	entries, err := bmc.array("phases")
	if err != nil {
		return phases, err
	}
	if len(entries) < phaseCount {
		return phases, parseError(fmt.Sprintf("%s.phases has %d entries, want %d", bmc.path, len(entries), phaseCount))
	}
	for i := 0; i < phaseCount; i++ {
		p := entries[i]
		if phases[i].StatusGlobal, err = p.uint32("statusGlobal"); err != nil {
			return phases, err
		}
		if phases[i].Temperature, err = p.reading("temperature", "temperatureHealth"); err != nil {
			return phases, err
		}
		if phases[i].Vout, err = p.float("vout"); err != nil {
			return phases, err
		}
	}
	return phases, nil
}

func parseSysmon(s object) (Sysmon, error) {
	var sm Sysmon
	var err error
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"temperature", &sm.Temperature},
		{"vccaux", &sm.VccAux},
		{"vccbram", &sm.VccBram},
		{"vccint", &sm.VccInt},
	} {
		if *f.dst, err = s.float(f.key); err != nil {
			return sm, err
		}
	}
	sm.Health = s.health("health")
	return sm, nil
}

func parseCore(c object) (Core, error) {
	var core Core

	clock, err := c.object("clock")
	if err != nil {
		return core, err
	}
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"multiplier", &core.Clock.Multiplier},
		{"badNonces", &core.Clock.BadNonces},
		{"totalNonces", &core.Clock.TotalNonces},
	} {
		if *f.dst, err = clock.float(f.key); err != nil {
			return core, err
		}
	}
	core.Clock.Health = clock.health("health")

	stats, err := c.object("stats")
	if err != nil {
		return core, err
	}
	core.Stats, err = parseWorkStats(stats)
	return core, err
}

func parseAccounting(a object) (Accounting, error) {
	var acc Accounting
	var err error
	acc.Difficulty, _ = a.optFloat("difficulty")
	stats, err := a.object("stats")
	if err != nil {
		return acc, err
	}
	acc.Stats, err = parseWorkStats(stats)
	return acc, err
}

func parseWorkStats(s object) (WorkStats, error) {
	var ws WorkStats
	var err error
	if ws.Name, err = s.str("name"); err != nil {
		return ws, err
	}
	minute, err := s.object("minute")
	if err != nil {
		return ws, err
	}
	if ws.Minute, err = parseCounters(minute, false); err != nil {
		return ws, err
	}
	total, err := s.object("total")
	if err != nil {
		return ws, err
	}
	ws.Total, err = parseCounters(total, true)
	return ws, err
}

func parseCounters(c object, timed bool) (Counters, error) {
	var out Counters
	var err error
	fields := []struct {
		key string
		dst *float64
	}{
		{"requested", &out.Requested},
		{"calculated", &out.Calculated},
		{"found", &out.Found},
		{"valid", &out.Valid},
		{"submitted", &out.Submitted},
		{"accepted", &out.Accepted},
	}
	if timed {
		fields = append(fields, []struct {
			key string
			dst *float64
		}{
			{"startTime", &out.StartTime},
			{"endTime", &out.EndTime},
		}...)
	}
	for _, f := range fields {
		if *f.dst, err = c.float(f.key); err != nil {
			return out, err
		}
	}
	return out, nil
}

func worstHealth(d Device) health.Level {
	r := d.Rails
	levels := []health.Level{
		r.Aux12V.Health,
		r.AuxCurrent.Health,
		r.Pex12V.Health,
		r.PexCurrent.Health,
		r.VccInt.Health,
		r.VccIntCurrent.Health,
		r.VRCtrlTemp.Health,
		d.Phases[0].Temperature.Health,
		d.Phases[1].Temperature.Health,
		d.Cores[0].Clock.Health,
	}
	for _, s := range d.Sysmons {
		levels = append(levels, s.Health)
	}
	return health.Worst(r.InputPower.Health, levels...)
}

func parseError(msg string) *errors.Error {
	return errors.New(errors.ErrParse,
		"Malformed status payload: "+msg,
		"The minerator may be newer than this viewer; check the payload with 'viewerator parse'.")
}

func missing(path string) *errors.Error {
	return parseError("missing field " + path)
}

// object is a JSON node plus its path in the payload, for error messages.
type object struct {
	node *ast.Node
	path string
}

func (o object) at(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

// child returns the member key. JSON null counts as absent.
func (o object) child(key string) (object, bool) {
	if o.node == nil || !o.node.Exists() || o.node.Type() != ast.V_OBJECT {
		return object{}, false
	}
	n := o.node.Get(key)
	if n == nil || !n.Exists() || n.Type() == ast.V_NULL {
		return object{}, false
	}
	return object{node: n, path: o.at(key)}, true
}

func (o object) has(key string) bool {
	_, ok := o.child(key)
	return ok
}

// firstEntryOf descends into the single-entry grouping object under key.
func (o object) firstEntryOf(key string) (object, bool) {
	group, ok := o.child(key)
	if !ok {
		return object{}, false
	}
	name, value, ok := FirstEntry(group.node)
	if !ok {
		return object{}, false
	}
	return object{node: value, path: group.at(name)}, true
}

func (o object) object(key string) (object, error) {
	c, ok := o.child(key)
	if !ok {
		return object{}, missing(o.at(key))
	}
	if c.node.Type() != ast.V_OBJECT {
		return object{}, parseError(c.path + " is not an object")
	}
	return c, nil
}

func (o object) optArray() ([]object, bool) {
	if o.node == nil || o.node.Type() != ast.V_ARRAY {
		return nil, false
	}
	n, err := o.node.Len()
	if err != nil {
		return nil, false
	}
	items := make([]object, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, object{node: o.node.Index(i), path: fmt.Sprintf("%s[%d]", o.path, i)})
	}
	return items, true
}

func (o object) array(key string) ([]object, error) {
	c, ok := o.child(key)
	if !ok {
		return nil, missing(o.at(key))
	}
	items, ok := c.optArray()
	if !ok {
		return nil, parseError(c.path + " is not an array")
	}
	return items, nil
}

func (o object) float(key string) (float64, error) {
	c, ok := o.child(key)
	if !ok {
		return 0, missing(o.at(key))
	}
	v, err := c.node.Float64()
	if err != nil {
		return 0, parseError(c.path + " is not a number")
	}
	return v, nil
}

func (o object) optFloat(key string) (float64, bool) {
	v, err := o.float(key)
	return v, err == nil
}

func (o object) optInt(key string) (int64, bool) {
	c, ok := o.child(key)
	if !ok {
		return 0, false
	}
	v, err := c.node.Int64()
	return v, err == nil
}

// uint32 reads a status bitmask, given either as a number or as a string such
// as "0x00000040".
func (o object) uint32(key string) (uint32, error) {
	c, ok := o.child(key)
	if !ok {
		return 0, missing(o.at(key))
	}
	if c.node.Type() == ast.V_STRING {
		s, _ := c.node.String()
		v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
		if err != nil {
			return 0, parseError(c.path + " is not a 32-bit status word")
		}
		return uint32(v), nil
	}
	v, err := c.node.Float64()
	if err != nil || v < 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		return 0, parseError(c.path + " is not a 32-bit status word")
	}
	return uint32(v), nil
}

func (o object) str(key string) (string, error) {
	c, ok := o.child(key)
	if !ok {
		return "", missing(o.at(key))
	}
	s, err := c.node.String()
	if err != nil {
		return "", parseError(c.path + " is not a string")
	}
	return s, nil
}

func (o object) optStr(key string) string {
	s, _ := o.str(key)
	return s
}

// health reads a health field. Missing or unrecognized spellings fail open
// to RampUp.
func (o object) health(key string) health.Level {
	return health.Parse(o.optStr(key))
}

func (o object) reading(valueKey, healthKey string) (Reading, error) {
	v, err := o.float(valueKey)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Value: v, Health: o.health(healthKey)}, nil
}
