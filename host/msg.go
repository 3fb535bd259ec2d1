// Package host embeds a runtime.Simulator inside an Akita component, so a
// compiled hardware description can sit in a larger Akita simulation
// alongside DRAM controllers, network fabrics and other Akita devices
// instead of only running in isolation under direct Go calls.
package host

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/hdlsim/sdata"
)

// ValueMsg carries one named node's value across a port, the way a
// message-passing neighbor (a DRAM controller, another Driver) pushes or
// pulls a value into or out of a running simulation. Port is the input or
// output name on the receiving Driver's schedule.
type ValueMsg struct {
	sim.MsgMeta

	Port  string
	Value sdata.Value
}

// Meta returns the msg's meta data.
func (m *ValueMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// ValueMsgBuilder is a fluent factory for ValueMsg.
type ValueMsgBuilder struct {
	src, dst sim.RemotePort
	sendTime sim.VTimeInSec
	port     string
	value    sdata.Value
}

// WithSrc sets the source port.
func (b ValueMsgBuilder) WithSrc(src sim.RemotePort) ValueMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination port.
func (b ValueMsgBuilder) WithDst(dst sim.RemotePort) ValueMsgBuilder {
	b.dst = dst
	return b
}

// WithSendTime sets the send time.
func (b ValueMsgBuilder) WithSendTime(t sim.VTimeInSec) ValueMsgBuilder {
	b.sendTime = t
	return b
}

// WithPort sets the name of the node the value targets.
func (b ValueMsgBuilder) WithPort(port string) ValueMsgBuilder {
	b.port = port
	return b
}

// WithValue sets the value being carried.
func (b ValueMsgBuilder) WithValue(v sdata.Value) ValueMsgBuilder {
	b.value = v
	return b
}

// Build creates the ValueMsg.
func (b ValueMsgBuilder) Build() *ValueMsg {
	return &ValueMsg{
		MsgMeta: sim.MsgMeta{
			ID:       sim.GetIDGenerator().Generate(),
			Src:      b.src,
			Dst:      b.dst,
			SendTime: b.sendTime,
		},
		Port:  b.port,
		Value: b.value,
	}
}
