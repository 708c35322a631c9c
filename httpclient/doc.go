// Package httpclient builds HTTP requests, encodes their bodies and
// dispatches them through a pluggable Transport.
//
// Requests are immutable and created with a RequestBuilder. The Client runs
// request interceptors, serializes the body, tracks the request so it can be
// cancelled, sends it and runs response interceptors on the result.
// Unsuccessful responses fail with an *Error of code ErrCodeHTTP carrying the
// status and body.
//
// # Basic Usage
//
//	client, err := nethttp.NewClient(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Get("users/123").Send(ctx)
//	if httpclient.IsNotFound(err) {
//	    ...
//	}
//
// # Multipart
//
//	mb := httpclient.NewMultipartBuilder()
//	_ = mb.SetType(httpclient.MultipartForm)
//	_ = mb.AddTextFormDataPart("title", "report")
//	_ = mb.AddFormDataPart("file", "report.pdf", httpclient.NewFileBody("report.pdf", ""))
//	body, err := mb.Build()
//
//	resp, err := client.Post("upload").Multipart(body).Send(ctx)
//
// # Streaming
//
//	s, err := client.Get("events").Stream(ctx)
//	for ev := range s.Events() {
//	    fmt.Println(ev.Data)
//	}
//	err = s.Err()
package httpclient
