// Package cartpb carries the hipstershop.CartService messages. They are
// encoded directly with protowire using the field numbers of demo.proto, so
// the service stays wire compatible with the other shop services without a
// generated package.
package cartpb

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every type in this package.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

type CartItem struct {
	ProductId string
	Quantity  int32
}

type Cart struct {
	UserId string
	Items  []*CartItem
}

type AddItemRequest struct {
	UserId string
	Item   *CartItem
}

type GetCartRequest struct {
	UserId string
}

type EmptyCartRequest struct {
	UserId string
}

type Empty struct{}

func (m *CartItem) GetProductId() string {
	if m == nil {
		return ""
	}
	return m.ProductId
}

func (m *CartItem) GetQuantity() int32 {
	if m == nil {
		return 0
	}
	return m.Quantity
}

func (m *AddItemRequest) GetItem() *CartItem {
	if m == nil {
		return nil
	}
	return m.Item
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(int64(v)))
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.MarshalWire())
}

// consumeFields walks b and hands every field to fn. fn returns the number of
// bytes it consumed, or 0 to have the field skipped as unknown.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		used, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if used == 0 {
			used = protowire.ConsumeFieldValue(num, typ, b)
			if used < 0 {
				return protowire.ParseError(used)
			}
		}
		b = b[used:]
	}
	return nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeInt32(typ protowire.Type, b []byte, dst *int32) (int, error) {
	if typ != protowire.VarintType {
		return 0, nil
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = int32(v)
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, dst Message) (int, error) {
	if typ != protowire.BytesType {
		return 0, nil
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, dst.UnmarshalWire(v)
}

func (m *CartItem) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.ProductId)
	b = appendInt32(b, 2, m.Quantity)
	return b
}

func (m *CartItem) UnmarshalWire(b []byte) error {
	*m = CartItem{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.ProductId)
		case 2:
			return consumeInt32(typ, b, &m.Quantity)
		}
		return 0, nil
	})
}

func (m *Cart) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.UserId)
	for _, item := range m.Items {
		b = appendMessage(b, 2, item)
	}
	return b
}

func (m *Cart) UnmarshalWire(b []byte) error {
	*m = Cart{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UserId)
		case 2:
			item := &CartItem{}
			n, err := consumeMessage(typ, b, item)
			if n > 0 && err == nil {
				m.Items = append(m.Items, item)
			}
			return n, err
		}
		return 0, nil
	})
}

func (m *AddItemRequest) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.UserId)
	if m.Item != nil {
		b = appendMessage(b, 2, m.Item)
	}
	return b
}

func (m *AddItemRequest) UnmarshalWire(b []byte) error {
	*m = AddItemRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return consumeString(typ, b, &m.UserId)
		case 2:
			item := &CartItem{}
			n, err := consumeMessage(typ, b, item)
			if n > 0 && err == nil {
				m.Item = item
			}
			return n, err
		}
		return 0, nil
	})
}

func (m *GetCartRequest) MarshalWire() []byte {
	return appendString(nil, 1, m.UserId)
}

func (m *GetCartRequest) UnmarshalWire(b []byte) error {
	*m = GetCartRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.UserId)
		}
		return 0, nil
	})
}

func (m *EmptyCartRequest) MarshalWire() []byte {
	return appendString(nil, 1, m.UserId)
}

func (m *EmptyCartRequest) UnmarshalWire(b []byte) error {
	*m = EmptyCartRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return consumeString(typ, b, &m.UserId)
		}
		return 0, nil
	})
}

func (m *Empty) MarshalWire() []byte { return nil }

func (m *Empty) UnmarshalWire(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) (int, error) {
		return 0, nil
	})
}
