package httpclient

// RequestInterceptor transforms a request before it is sent.
// Returning an error rejects the request.
type RequestInterceptor interface {
	InterceptRequest(req *Request) (*Request, error)
}

// ResponseInterceptor transforms a response after it is received.
// resp may be nil when the transport produced no result.
type ResponseInterceptor interface {
	InterceptResponse(resp *Response) (*Response, error)
}

// RequestInterceptorFunc adapts a function to RequestInterceptor.
type RequestInterceptorFunc func(req *Request) (*Request, error)

func (f RequestInterceptorFunc) InterceptRequest(req *Request) (*Request, error) { return f(req) }

// ResponseInterceptorFunc adapts a function to ResponseInterceptor.
type ResponseInterceptorFunc func(resp *Response) (*Response, error)

func (f ResponseInterceptorFunc) InterceptResponse(resp *Response) (*Response, error) { return f(resp) }

// runRequestInterceptors applies every interceptor in registration order.
func runRequestInterceptors(interceptors []RequestInterceptor, req *Request) (*Request, error) {
	for _, ic := range interceptors {
		next, err := ic.InterceptRequest(req)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, NewValidationError("request interceptor returned no request")
		}
		req = next
	}
	return req, nil
}

// runResponseInterceptors applies every interceptor in registration order,
// passing nil responses through the chain as well.
func runResponseInterceptors(interceptors []ResponseInterceptor, resp *Response) (*Response, error) {
	for _, ic := range interceptors {
		next, err := ic.InterceptResponse(resp)
		if err != nil {
			return nil, err
		}
		resp = next
	}
	return resp, nil
}
