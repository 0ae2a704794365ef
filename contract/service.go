package contract

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ChatServiceName = "pairchat.v1.ChatService"
	AuthServiceName = "pairchat.v1.AuthService"

	ChatService_PostMessage_FullMethodName              = "/pairchat.v1.ChatService/PostMessage"
	ChatService_FindOrCreateConversation_FullMethodName = "/pairchat.v1.ChatService/FindOrCreateConversation"
	ChatService_GetMessages_FullMethodName              = "/pairchat.v1.ChatService/GetMessages"
	AuthService_Register_FullMethodName                 = "/pairchat.v1.AuthService/Register"
	AuthService_Login_FullMethodName                    = "/pairchat.v1.AuthService/Login"
)

type ChatServiceServer interface {
	PostMessage(context.Context, *PostMessageRequest) (*PostMessageResponse, error)
	FindOrCreateConversation(context.Context, *FindOrCreateConversationRequest) (*FindOrCreateConversationResponse, error)
	GetMessages(context.Context, *GetMessagesRequest) (*GetMessagesResponse, error)
}

type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
}

// unaryHandler adapts a typed method to the untyped grpc.MethodHandler,
// running the server interceptor chain when there is one.
func unaryHandler[S, Req, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ChatServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PostMessage",
			Handler:    unaryHandler(ChatService_PostMessage_FullMethodName, ChatServiceServer.PostMessage),
		},
		{
			MethodName: "FindOrCreateConversation",
			Handler:    unaryHandler(ChatService_FindOrCreateConversation_FullMethodName, ChatServiceServer.FindOrCreateConversation),
		},
		{
			MethodName: "GetMessages",
			Handler:    unaryHandler(ChatService_GetMessages_FullMethodName, ChatServiceServer.GetMessages),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contract/service.go",
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(AuthService_Register_FullMethodName, AuthServiceServer.Register),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(AuthService_Login_FullMethodName, AuthServiceServer.Login),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "contract/service.go",
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// invoke performs a unary call through the pairchat wire codec.
func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type ChatServiceClient interface {
	PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*PostMessageResponse, error)
	FindOrCreateConversation(ctx context.Context, in *FindOrCreateConversationRequest, opts ...grpc.CallOption) (*FindOrCreateConversationResponse, error)
	GetMessages(ctx context.Context, in *GetMessagesRequest, opts ...grpc.CallOption) (*GetMessagesResponse, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc: cc}
}

func (c *chatServiceClient) PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*PostMessageResponse, error) {
	return invoke[PostMessageRequest, PostMessageResponse](ctx, c.cc, ChatService_PostMessage_FullMethodName, in, opts...)
}

func (c *chatServiceClient) FindOrCreateConversation(ctx context.Context, in *FindOrCreateConversationRequest, opts ...grpc.CallOption) (*FindOrCreateConversationResponse, error) {
	return invoke[FindOrCreateConversationRequest, FindOrCreateConversationResponse](ctx, c.cc, ChatService_FindOrCreateConversation_FullMethodName, in, opts...)
}

func (c *chatServiceClient) GetMessages(ctx context.Context, in *GetMessagesRequest, opts ...grpc.CallOption) (*GetMessagesResponse, error) {
	return invoke[GetMessagesRequest, GetMessagesResponse](ctx, c.cc, ChatService_GetMessages_FullMethodName, in, opts...)
}

type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[RegisterRequest, AuthResponse](ctx, c.cc, AuthService_Register_FullMethodName, in, opts...)
}

func (c *authServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[LoginRequest, AuthResponse](ctx, c.cc, AuthService_Login_FullMethodName, in, opts...)
}
