package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Full method names.
const (
	SessionService_GetStatus_FullMethodName       = "/weibo.v1.SessionService/GetStatus"
	SessionService_GetAuthorizeURL_FullMethodName = "/weibo.v1.SessionService/GetAuthorizeURL"
	SessionService_ExchangeCode_FullMethodName    = "/weibo.v1.SessionService/ExchangeCode"
	SessionService_Logout_FullMethodName          = "/weibo.v1.SessionService/Logout"

	TimelineService_FetchStatuses_FullMethodName = "/weibo.v1.TimelineService/FetchStatuses"
	TimelineService_ListCached_FullMethodName    = "/weibo.v1.TimelineService/ListCached"

	StatusService_Post_FullMethodName    = "/weibo.v1.StatusService/Post"
	StatusService_GetPost_FullMethodName = "/weibo.v1.StatusService/GetPost"

	RemindService_GetUnread_FullMethodName = "/weibo.v1.RemindService/GetUnread"

	EventService_WatchEvents_FullMethodName = "/weibo.v1.EventService/WatchEvents"
)

// unary builds a MethodHandler that decodes Req and dispatches through the
// server interceptor, the way generated handlers do.
func unary[S, Req, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
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

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

// SessionServiceServer is the server API for SessionService.
type SessionServiceServer interface {
	GetStatus(context.Context, *GetStatusRequest) (*GetStatusResponse, error)
	GetAuthorizeURL(context.Context, *GetAuthorizeURLRequest) (*GetAuthorizeURLResponse, error)
	ExchangeCode(context.Context, *ExchangeCodeRequest) (*ExchangeCodeResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
}

var SessionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "weibo.v1.SessionService",
	HandlerType: (*SessionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStatus", Handler: unary(SessionService_GetStatus_FullMethodName, SessionServiceServer.GetStatus)},
		{MethodName: "GetAuthorizeURL", Handler: unary(SessionService_GetAuthorizeURL_FullMethodName, SessionServiceServer.GetAuthorizeURL)},
		{MethodName: "ExchangeCode", Handler: unary(SessionService_ExchangeCode_FullMethodName, SessionServiceServer.ExchangeCode)},
		{MethodName: "Logout", Handler: unary(SessionService_Logout_FullMethodName, SessionServiceServer.Logout)},
	},
	Metadata: "weibo/v1/session.json",
}

func RegisterSessionServiceServer(s grpc.ServiceRegistrar, srv SessionServiceServer) {
	s.RegisterService(&SessionService_ServiceDesc, srv)
}

// SessionServiceClient is the client API for SessionService.
type SessionServiceClient interface {
	GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error)
	GetAuthorizeURL(ctx context.Context, in *GetAuthorizeURLRequest, opts ...grpc.CallOption) (*GetAuthorizeURLResponse, error)
	ExchangeCode(ctx context.Context, in *ExchangeCodeRequest, opts ...grpc.CallOption) (*ExchangeCodeResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
}

type sessionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSessionServiceClient(cc grpc.ClientConnInterface) SessionServiceClient {
	return &sessionServiceClient{cc}
}

func (c *sessionServiceClient) GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error) {
	return invoke[GetStatusResponse](ctx, c.cc, SessionService_GetStatus_FullMethodName, in, opts)
}

func (c *sessionServiceClient) GetAuthorizeURL(ctx context.Context, in *GetAuthorizeURLRequest, opts ...grpc.CallOption) (*GetAuthorizeURLResponse, error) {
	return invoke[GetAuthorizeURLResponse](ctx, c.cc, SessionService_GetAuthorizeURL_FullMethodName, in, opts)
}

func (c *sessionServiceClient) ExchangeCode(ctx context.Context, in *ExchangeCodeRequest, opts ...grpc.CallOption) (*ExchangeCodeResponse, error) {
	return invoke[ExchangeCodeResponse](ctx, c.cc, SessionService_ExchangeCode_FullMethodName, in, opts)
}

func (c *sessionServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, SessionService_Logout_FullMethodName, in, opts)
}

// TimelineServiceServer is the server API for TimelineService.
type TimelineServiceServer interface {
	FetchStatuses(context.Context, *FetchStatusesRequest) (*FetchStatusesResponse, error)
	ListCached(context.Context, *ListCachedRequest) (*ListCachedResponse, error)
}

var TimelineService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "weibo.v1.TimelineService",
	HandlerType: (*TimelineServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FetchStatuses", Handler: unary(TimelineService_FetchStatuses_FullMethodName, TimelineServiceServer.FetchStatuses)},
		{MethodName: "ListCached", Handler: unary(TimelineService_ListCached_FullMethodName, TimelineServiceServer.ListCached)},
	},
	Metadata: "weibo/v1/timeline.json",
}

func RegisterTimelineServiceServer(s grpc.ServiceRegistrar, srv TimelineServiceServer) {
	s.RegisterService(&TimelineService_ServiceDesc, srv)
}

// TimelineServiceClient is the client API for TimelineService.
type TimelineServiceClient interface {
	FetchStatuses(ctx context.Context, in *FetchStatusesRequest, opts ...grpc.CallOption) (*FetchStatusesResponse, error)
	ListCached(ctx context.Context, in *ListCachedRequest, opts ...grpc.CallOption) (*ListCachedResponse, error)
}

type timelineServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTimelineServiceClient(cc grpc.ClientConnInterface) TimelineServiceClient {
	return &timelineServiceClient{cc}
}

func (c *timelineServiceClient) FetchStatuses(ctx context.Context, in *FetchStatusesRequest, opts ...grpc.CallOption) (*FetchStatusesResponse, error) {
	return invoke[FetchStatusesResponse](ctx, c.cc, TimelineService_FetchStatuses_FullMethodName, in, opts)
}

func (c *timelineServiceClient) ListCached(ctx context.Context, in *ListCachedRequest, opts ...grpc.CallOption) (*ListCachedResponse, error) {
	return invoke[ListCachedResponse](ctx, c.cc, TimelineService_ListCached_FullMethodName, in, opts)
}

// StatusServiceServer is the server API for StatusService.
type StatusServiceServer interface {
	Post(context.Context, *PostRequest) (*PostResponse, error)
	GetPost(context.Context, *GetPostRequest) (*GetPostResponse, error)
}

var StatusService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "weibo.v1.StatusService",
	HandlerType: (*StatusServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Post", Handler: unary(StatusService_Post_FullMethodName, StatusServiceServer.Post)},
		{MethodName: "GetPost", Handler: unary(StatusService_GetPost_FullMethodName, StatusServiceServer.GetPost)},
	},
	Metadata: "weibo/v1/status.json",
}

func RegisterStatusServiceServer(s grpc.ServiceRegistrar, srv StatusServiceServer) {
	s.RegisterService(&StatusService_ServiceDesc, srv)
}

// StatusServiceClient is the client API for StatusService.
type StatusServiceClient interface {
	Post(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*PostResponse, error)
	GetPost(ctx context.Context, in *GetPostRequest, opts ...grpc.CallOption) (*GetPostResponse, error)
}

type statusServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStatusServiceClient(cc grpc.ClientConnInterface) StatusServiceClient {
	return &statusServiceClient{cc}
}

func (c *statusServiceClient) Post(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*PostResponse, error) {
	return invoke[PostResponse](ctx, c.cc, StatusService_Post_FullMethodName, in, opts)
}

func (c *statusServiceClient) GetPost(ctx context.Context, in *GetPostRequest, opts ...grpc.CallOption) (*GetPostResponse, error) {
	return invoke[GetPostResponse](ctx, c.cc, StatusService_GetPost_FullMethodName, in, opts)
}

// RemindServiceServer is the server API for RemindService.
type RemindServiceServer interface {
	GetUnread(context.Context, *GetUnreadRequest) (*GetUnreadResponse, error)
}

var RemindService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "weibo.v1.RemindService",
	HandlerType: (*RemindServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetUnread", Handler: unary(RemindService_GetUnread_FullMethodName, RemindServiceServer.GetUnread)},
	},
	Metadata: "weibo/v1/remind.json",
}

func RegisterRemindServiceServer(s grpc.ServiceRegistrar, srv RemindServiceServer) {
	s.RegisterService(&RemindService_ServiceDesc, srv)
}

// RemindServiceClient is the client API for RemindService.
type RemindServiceClient interface {
	GetUnread(ctx context.Context, in *GetUnreadRequest, opts ...grpc.CallOption) (*GetUnreadResponse, error)
}

type remindServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRemindServiceClient(cc grpc.ClientConnInterface) RemindServiceClient {
	return &remindServiceClient{cc}
}

func (c *remindServiceClient) GetUnread(ctx context.Context, in *GetUnreadRequest, opts ...grpc.CallOption) (*GetUnreadResponse, error) {
	return invoke[GetUnreadResponse](ctx, c.cc, RemindService_GetUnread_FullMethodName, in, opts)
}

// EventService_WatchEventsServer is the server side of a WatchEvents stream.
type EventService_WatchEventsServer interface {
	Send(*Event) error
	grpc.ServerStream
}

// EventServiceServer is the server API for EventService.
type EventServiceServer interface {
	WatchEvents(*WatchEventsRequest, EventService_WatchEventsServer) error
}

type eventServiceWatchEventsServer struct {
	grpc.ServerStream
}

func (x *eventServiceWatchEventsServer) Send(m *Event) error {
	return x.ServerStream.SendMsg(m)
}

func _EventService_WatchEvents_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchEventsRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(EventServiceServer).WatchEvents(m, &eventServiceWatchEventsServer{stream})
}

var EventService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "weibo.v1.EventService",
	HandlerType: (*EventServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchEvents",
			Handler:       _EventService_WatchEvents_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "weibo/v1/events.json",
}

func RegisterEventServiceServer(s grpc.ServiceRegistrar, srv EventServiceServer) {
	s.RegisterService(&EventService_ServiceDesc, srv)
}

// EventService_WatchEventsClient is the client side of a WatchEvents stream.
type EventService_WatchEventsClient interface {
	Recv() (*Event, error)
	grpc.ClientStream
}

// EventServiceClient is the client API for EventService.
type EventServiceClient interface {
	WatchEvents(ctx context.Context, in *WatchEventsRequest, opts ...grpc.CallOption) (EventService_WatchEventsClient, error)
}

type eventServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewEventServiceClient(cc grpc.ClientConnInterface) EventServiceClient {
	return &eventServiceClient{cc}
}

func (c *eventServiceClient) WatchEvents(ctx context.Context, in *WatchEventsRequest, opts ...grpc.CallOption) (EventService_WatchEventsClient, error) {
	stream, err := c.cc.NewStream(ctx, &EventService_ServiceDesc.Streams[0], EventService_WatchEvents_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &eventServiceWatchEventsClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type eventServiceWatchEventsClient struct {
	grpc.ClientStream
}

func (x *eventServiceWatchEventsClient) Recv() (*Event, error) {
	m := new(Event)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
