package ffi

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"unsafe"
)

// Raw union accessors. They reinterpret the payload without looking at
// Format; reading a member that does not match Format is undefined.

func (n *Node) payload() unsafe.Pointer { return unsafe.Pointer(&n.u) }

// RawString reads the char* member (FormatString, FormatOSDString).
func (n *Node) RawString() string { return GoString(*(*unsafe.Pointer)(n.payload())) }

// RawFlag reads the int member (FormatFlag).
func (n *Node) RawFlag() bool { return *(*int32)(n.payload()) != 0 }

// RawInt64 reads the int64 member (FormatInt64).
func (n *Node) RawInt64() int64 { return *(*int64)(n.payload()) }

// RawDouble reads the double member (FormatDouble).
func (n *Node) RawDouble() float64 { return *(*float64)(n.payload()) }

// RawList reads the list member (FormatNodeArray, FormatNodeMap).
func (n *Node) RawList() *NodeList { return *(**NodeList)(n.payload()) }

// RawByteArray reads the ba member (FormatByteArray).
func (n *Node) RawByteArray() *ByteArray { return *(**ByteArray)(n.payload()) }

func (n *Node) setPointer(p unsafe.Pointer) {
	n.u = 0
	*(*unsafe.Pointer)(n.payload()) = p
}

func (n *Node) setFlag(v bool) {
	n.u = 0
	if v {
		*(*int32)(n.payload()) = 1
	}
}

func (n *Node) setInt64(v int64)    { *(*int64)(n.payload()) = v }
func (n *Node) setDouble(v float64) { *(*float64)(n.payload()) = v }

// ReadNode converts a node tree into Go values, copying everything out of
// native memory:
//
//	FormatNone      -> nil
//	FormatString    -> string (also FormatOSDString)
//	FormatFlag      -> bool
//	FormatInt64     -> int64
//	FormatDouble    -> float64
//	FormatNodeArray -> []any
//	FormatNodeMap   -> map[string]any
//	FormatByteArray -> []byte
func ReadNode(n *Node) (any, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Format {
	case FormatNone:
		return nil, nil
	case FormatString, FormatOSDString:
		return n.RawString(), nil
	case FormatFlag:
		return n.RawFlag(), nil
	case FormatInt64:
		return n.RawInt64(), nil
	case FormatDouble:
		return n.RawDouble(), nil
	case FormatNodeArray:
		return readArray(n.RawList())
	case FormatNodeMap:
		return readMap(n.RawList())
	case FormatByteArray:
		ba := n.RawByteArray()
		if ba == nil || ba.Data == nil || ba.Size == 0 {
			return []byte{}, nil
		}
		return append([]byte(nil), unsafe.Slice((*byte)(ba.Data), ba.Size)...), nil
	default:
		return nil, fmt.Errorf("%w: node format %s", ErrUnknownFormat, n.Format)
	}
}

func listValues(list *NodeList) ([]Node, error) {
	if list == nil || list.Num == 0 {
		return nil, nil
	}
	if list.Num < 0 {
		return nil, fmt.Errorf("%w: node list count %d", ErrInvalidParameter, list.Num)
	}
	if list.Values == nil {
		return nil, fmt.Errorf("%w: node list with %d entries has no values", ErrInvalidParameter, list.Num)
	}
	return unsafe.Slice(list.Values, list.Num), nil
}

func readArray(list *NodeList) ([]any, error) {
	values, err := listValues(list)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(values))
	for i := range values {
		if out[i], err = ReadNode(&values[i]); err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
	}
	return out, nil
}

func readMap(list *NodeList) (map[string]any, error) {
	values, err := listValues(list)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	if len(values) == 0 {
		return out, nil
	}
	if list.Keys == nil {
		return nil, fmt.Errorf("%w: node map without keys", ErrInvalidParameter)
	}
	keys := goStrings(list.Keys, len(values))
	for i := range values {
		v, err := ReadNode(&values[i])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", keys[i], err)
		}
		out[keys[i]] = v
	}
	return out, nil
}

// ReadData converts the data pointer of a format-tagged value, as found in
// mpv_event_property and mpv_get_property output, into a Go value.
func ReadData(format Format, data unsafe.Pointer) (any, error) {
	if data == nil || format == FormatNone {
		return nil, nil
	}
	switch format {
	case FormatString, FormatOSDString:
		return GoString(*(*unsafe.Pointer)(data)), nil
	case FormatFlag:
		return *(*int32)(data) != 0, nil
	case FormatInt64:
		return *(*int64)(data), nil
	case FormatDouble:
		return *(*float64)(data), nil
	case FormatNode:
		return ReadNode((*Node)(data))
	default:
		return nil, fmt.Errorf("%w: data format %s", ErrUnknownFormat, format)
	}
}

// PinnedNode is a node tree built in Go memory for passing into libmpv
// (mpv_command_node, mpv_set_property with FormatNode). Every object in the
// tree stays pinned until Release.
type PinnedNode struct {
	root   *Node
	pinner runtime.Pinner
}

// NewNode encodes v into a pinned node tree. Supported types: nil, string,
// bool, signed and unsigned integers, float32/float64, []byte, []string,
// []any, map[string]any and map[string]string, and *Node-free nestings of those.
func NewNode(v any) (*PinnedNode, error) {
	p := &PinnedNode{root: new(Node)}
	p.pinner.Pin(p.root)
	if err := p.encode(p.root, v); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// Node returns the root node. It is nil after Release.
func (p *PinnedNode) Node() *Node { return p.root }

// Release unpins the tree. Native code must not hold references past it.
func (p *PinnedNode) Release() {
	p.pinner.Unpin()
	p.root = nil
}

func (p *PinnedNode) cstring(s string) unsafe.Pointer {
	return pinnedCString(&p.pinner, s, false)
}

func (p *PinnedNode) encode(n *Node, v any) error {
	switch x := v.(type) {
	case nil:
		n.Format = FormatNone
		n.u = 0
	case string:
		n.Format = FormatString
		n.setPointer(p.cstring(x))
	case bool:
		n.Format = FormatFlag
		n.setFlag(x)
	case int:
		n.Format = FormatInt64
		n.setInt64(int64(x))
	case int8:
		n.Format = FormatInt64
		n.setInt64(int64(x))
	case int16:
		n.Format = FormatInt64
		n.setInt64(int64(x))
	case int32:
		n.Format = FormatInt64
		n.setInt64(int64(x))
	case int64:
		n.Format = FormatInt64
		n.setInt64(x)
	case uint8:
		n.Format = FormatInt64
		n.setInt64(int64(x))
	case uint16:
		n.Format = FormatInt64
		n.setInt64(int64(x))
	case uint32:
		n.Format = FormatInt64
		n.setInt64(int64(x))
	case uint:
		return p.encodeUint(n, uint64(x))
	case uint64:
		return p.encodeUint(n, x)
	case float32:
		n.Format = FormatDouble
		n.setDouble(float64(x))
	case float64:
		n.Format = FormatDouble
		n.setDouble(x)
	case []byte:
		ba := &ByteArray{Size: uintptr(len(x))}
		if len(x) > 0 {
			p.pinner.Pin(&x[0])
			ba.Data = unsafe.Pointer(&x[0])
		}
		p.pinner.Pin(ba)
		n.Format = FormatByteArray
		n.setPointer(unsafe.Pointer(ba))
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return p.encodeArray(n, items)
	case []any:
		return p.encodeArray(n, x)
	case map[string]string:
		items := make(map[string]any, len(x))
		for k, s := range x {
			items[k] = s
		}
		return p.encodeMap(n, items)
	case map[string]any:
		return p.encodeMap(n, x)
	default:
		return fmt.Errorf("%w: cannot encode %T as mpv_node", ErrInvalidParameter, v)
	}
	return nil
}

func (p *PinnedNode) encodeUint(n *Node, v uint64) error {
	if v > math.MaxInt64 {
		return fmt.Errorf("%w: %d overflows int64", ErrInvalidParameter, v)
	}
	n.Format = FormatInt64
	n.setInt64(int64(v))
	return nil
}

func (p *PinnedNode) newList(count int) (*NodeList, []Node) {
	list := &NodeList{Num: int32(count)}
	p.pinner.Pin(list)
	if count == 0 {
		return list, nil
	}
	values := make([]Node, count)
	p.pinner.Pin(&values[0])
	list.Values = &values[0]
	return list, values
}

func (p *PinnedNode) encodeArray(n *Node, items []any) error {
	list, values := p.newList(len(items))
	for i, item := range items {
		if err := p.encode(&values[i], item); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	n.Format = FormatNodeArray
	n.setPointer(unsafe.Pointer(list))
	return nil
}

func (p *PinnedNode) encodeMap(n *Node, items map[string]any) error {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list, values := p.newList(len(keys))
	if len(keys) > 0 {
		cKeys := make([]*byte, len(keys))
		for i, k := range keys {
			cKeys[i] = (*byte)(p.cstring(k))
			if err := p.encode(&values[i], items[k]); err != nil {
				return fmt.Errorf("key %q: %w", k, err)
			}
		}
		p.pinner.Pin(&cKeys[0])
		list.Keys = &cKeys[0]
	}
	n.Format = FormatNodeMap
	n.setPointer(unsafe.Pointer(list))
	return nil
}

// OwnedNode holds a node whose contents were allocated by libmpv (the result
// of mpv_command_node or mpv_get_property with FormatNode). Free releases them
// through mpv_free_node_contents exactly once.
type OwnedNode struct {
	mu    sync.Mutex
	node  Node
	valid bool
}

// Node returns the underlying node, or nil after Free.
func (o *OwnedNode) Node() *Node {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.valid {
		return nil
	}
	return &o.node
}

// Value decodes the node into Go values.
func (o *OwnedNode) Value() (any, error) {
	if o == nil {
		return nil, nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.valid {
		return nil, nil
	}
	return ReadNode(&o.node)
}

// Free releases the native contents. Subsequent calls do nothing.
func (o *OwnedNode) Free() {
	if o == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.valid {
		return
	}
	FreeNodeContents(&o.node)
	o.valid = false
}
