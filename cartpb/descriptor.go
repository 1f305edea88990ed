package cartpb

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// DemoFile describes the cart part of demo.proto. It is registered in
// protoregistry.GlobalFiles so server reflection can serve it.
var DemoFile protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(demoFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(err)
	}
	DemoFile = fd
}

func demoFileProto() *descriptorpb.FileDescriptorProto {
	const (
		optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
		str      = descriptorpb.FieldDescriptorProto_TYPE_STRING
		i32      = descriptorpb.FieldDescriptorProto_TYPE_INT32
		msg      = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	)
	field := func(name, jsonName string, num int32, typ descriptorpb.FieldDescriptorProto_Type, label descriptorpb.FieldDescriptorProto_Label, typeName string) *descriptorpb.FieldDescriptorProto {
		f := &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			JsonName: proto.String(jsonName),
			Number:   proto.Int32(num),
			Type:     typ.Enum(),
			Label:    label.Enum(),
		}
		if typeName != "" {
			f.TypeName = proto.String(typeName)
		}
		return f
	}
	message := func(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
		return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
	}
	method := func(name, in, out string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(".hipstershop." + in),
			OutputType: proto.String(".hipstershop." + out),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("demo.proto"),
		Package: proto.String("hipstershop"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("CartItem",
				field("product_id", "productId", 1, str, optional, ""),
				field("quantity", "quantity", 2, i32, optional, "")),
			message("AddItemRequest",
				field("user_id", "userId", 1, str, optional, ""),
				field("item", "item", 2, msg, optional, ".hipstershop.CartItem")),
			message("EmptyCartRequest",
				field("user_id", "userId", 1, str, optional, "")),
			message("GetCartRequest",
				field("user_id", "userId", 1, str, optional, "")),
			message("Cart",
				field("user_id", "userId", 1, str, optional, ""),
				field("items", "items", 2, msg, repeated, ".hipstershop.CartItem")),
			message("Empty"),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("CartService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("AddItem", "AddItemRequest", "Empty"),
				method("GetCart", "GetCartRequest", "Cart"),
				method("EmptyCart", "EmptyCartRequest", "Empty"),
			},
		}},
	}
}
