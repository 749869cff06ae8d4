package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/blogd/internal/auth"
	"github.com/hitoshi/blogd/internal/gql"
	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/post"
)

// --- スタブサービス ---
// ルーター・GraphQLハンドラーのテストで使う最小実装。

type stubAuthService struct{}

func (stubAuthService) Signup(ctx context.Context, email, name, password string) (*model.User, error) {
	return &model.User{ID: "user-1", Email: email, Name: name, Status: model.DefaultUserStatus}, nil
}

func (stubAuthService) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	return &auth.LoginResult{Token: "tok", UserID: "user-1", UserName: "Alice"}, nil
}

type stubUserService struct{}

func (stubUserService) Me(ctx context.Context, userID string) (*model.User, error) {
	return &model.User{ID: userID, Email: "a@b.com", Name: "Alice", Status: "I am new"}, nil
}

func (stubUserService) UpdateStatus(ctx context.Context, userID, status string) (*model.User, error) {
	return &model.User{ID: userID, Email: "a@b.com", Name: "Alice", Status: status}, nil
}

type stubPostService struct{}

func (stubPostService) Create(ctx context.Context, ownerID, ownerName string, input post.Input) (*model.Post, error) {
	return &model.Post{ID: "post-1", Title: input.Title, Content: input.Content, CreatorName: ownerName, UserID: ownerID}, nil
}

func (stubPostService) Get(ctx context.Context, id string) (*model.Post, error) {
	return &model.Post{ID: id, Title: "Hello World"}, nil
}

func (stubPostService) List(ctx context.Context, page int) (*post.ListResult, error) {
	return &post.ListResult{TotalPosts: 0}, nil
}

func (stubPostService) Update(ctx context.Context, ownerID, ownerName, id string, input post.Input) (*model.Post, error) {
	return &model.Post{ID: id, Title: input.Title, Content: input.Content, CreatorName: ownerName, UserID: ownerID}, nil
}

func (stubPostService) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	return true, nil
}

type recordingGraphQLMetrics struct {
	operations []string
}

func (m *recordingGraphQLMetrics) RecordGraphQLOperation(operation string) {
	m.operations = append(m.operations, operation)
}

func newStubResolver() *gql.Resolver {
	return gql.NewResolver(stubAuthService{}, stubUserService{}, stubPostService{})
}

// --- テスト ---

func TestGraphQLHandler_Login(t *testing.T) {
	schema := gql.NewSchema(newStubResolver())
	collector := &recordingGraphQLMetrics{}
	h := NewGraphQLHandler(schema, collector)

	body := `{"query": "query { login(email: \"a@b.com\", password: \"secret\") { token userId userName } }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data struct {
			Login struct {
				Token string `json:"token"`
			} `json:"login"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("errors = %v", resp.Errors)
	}
	if resp.Data.Login.Token != "tok" {
		t.Errorf("token = %q, want %q", resp.Data.Login.Token, "tok")
	}
	if len(collector.operations) != 1 || collector.operations[0] != "query" {
		t.Errorf("operations = %v, want [query]", collector.operations)
	}
}

// GraphQL層のエラーはHTTP 200のerrorsフィールドで返ることを検証
func TestGraphQLHandler_UnauthenticatedMutation(t *testing.T) {
	schema := gql.NewSchema(newStubResolver())
	h := NewGraphQLHandler(schema, &recordingGraphQLMetrics{})

	body := `{"query": "mutation { createPost(postInput: {title: \"Hello World\", content: \"Some content\", imageUrl: \"\"}) { id } }"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Errors []struct {
			Message    string                 `json:"message"`
			Extensions map[string]interface{} `json:"extensions"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("errors = %+v, want 1 error", resp.Errors)
	}
	if resp.Errors[0].Message != "Not authenticated" {
		t.Errorf("message = %q", resp.Errors[0].Message)
	}
	// JSONデコード後の数値はfloat64になる
	if resp.Errors[0].Extensions["status"] != float64(http.StatusUnauthorized) {
		t.Errorf("extensions = %+v, want status 401", resp.Errors[0].Extensions)
	}
}

func TestGraphQLHandler_MethodNotAllowed(t *testing.T) {
	schema := gql.NewSchema(newStubResolver())
	h := NewGraphQLHandler(schema, &recordingGraphQLMetrics{})

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestGraphQLHandler_InvalidBody(t *testing.T) {
	schema := gql.NewSchema(newStubResolver())
	h := NewGraphQLHandler(schema, &recordingGraphQLMetrics{})

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestOperationLabel(t *testing.T) {
	tests := []struct {
		name string
		req  graphqlRequest
		want string
	}{
		{"operation name", graphqlRequest{Query: "query Login { login }", OperationName: "Login"}, "Login"},
		{"mutation", graphqlRequest{Query: "mutation { createPost }"}, "mutation"},
		{"shorthand query", graphqlRequest{Query: "{ posts }"}, "query"},
		{"leading whitespace", graphqlRequest{Query: "  \n mutation { deletePost }"}, "mutation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := operationLabel(tt.req); got != tt.want {
				t.Errorf("operationLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
