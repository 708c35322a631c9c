package httpclient

import (
	"testing"
)

func TestAuthConfig_Interceptor(t *testing.T) {
	tests := []struct {
		name    string
		auth    *AuthConfig
		header  string
		want    string
		wantURL string
	}{
		{"bearer", BearerAuth("tok"), "Authorization", "Bearer tok", "http://x/a"},
		{"basic", BasicAuth("ada", "secret"), "Authorization", "Basic YWRhOnNlY3JldA==", "http://x/a"},
		{"api key header", APIKeyAuth("k1"), "X-API-Key", "k1", "http://x/a"},
		{"api key query", APIKeyAuthQuery("k1", "key"), "", "", "http://x/a?key=k1"},
		{"api key default name", &AuthConfig{Type: AuthAPIKey, Key: "k2"}, "X-API-Key", "k2", "http://x/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := NewRequestBuilder(nil).URL("http://x/a").Build()
			out, err := tt.auth.Interceptor().InterceptRequest(req)
			if err != nil {
				t.Fatalf("InterceptRequest: %v", err)
			}
			if out.ID() != req.ID() {
				t.Error("interceptor changed the request identity")
			}
			if out.URL() != tt.wantURL {
				t.Errorf("url = %q, want %q", out.URL(), tt.wantURL)
			}
			if tt.header != "" {
				if v, _ := out.Header(tt.header); v != tt.want {
					t.Errorf("%s = %q, want %q", tt.header, v, tt.want)
				}
			}
		})
	}
}

func TestAuthConfig_KeepsExistingHeader(t *testing.T) {
	req, _ := NewRequestBuilder(nil).URL("http://x").Header("Authorization", "Bearer mine").Build()
	out, err := BearerAuth("default").Interceptor().InterceptRequest(req)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := out.Header("Authorization"); v != "Bearer mine" {
		t.Errorf("Authorization = %q", v)
	}
}

func TestAuthConfig_NilOrNone(t *testing.T) {
	req, _ := NewRequestBuilder(nil).URL("http://x").Build()
	var nilAuth *AuthConfig
	for _, a := range []*AuthConfig{nilAuth, {}} {
		out, err := a.Interceptor().InterceptRequest(req)
		if err != nil || out != req {
			t.Errorf("expected passthrough, got %v, %v", out, err)
		}
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		auth    *AuthConfig
		wantErr bool
	}{
		{"nil", nil, false},
		{"none", &AuthConfig{}, false},
		{"bearer ok", BearerAuth("t"), false},
		{"bearer empty", BearerAuth(""), true},
		{"basic empty user", BasicAuth("", "p"), true},
		{"api key empty", APIKeyAuth(""), true},
		{"unknown", &AuthConfig{Type: "digest"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.auth.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
