package gql

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/hitoshi/blogd/internal/auth"
	"github.com/hitoshi/blogd/internal/middleware"
	"github.com/hitoshi/blogd/internal/model"
	"github.com/hitoshi/blogd/internal/post"
)

// AuthService はリゾルバが必要とする認証サービスインターフェース。
type AuthService interface {
	Signup(ctx context.Context, email, name, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// UserService はリゾルバが必要とするユーザーサービスインターフェース。
type UserService interface {
	Me(ctx context.Context, userID string) (*model.User, error)
	UpdateStatus(ctx context.Context, userID, status string) (*model.User, error)
}

// PostService はリゾルバが必要とする記事サービスインターフェース。
type PostService interface {
	Create(ctx context.Context, ownerID, ownerName string, input post.Input) (*model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, page int) (*post.ListResult, error)
	Update(ctx context.Context, ownerID, ownerName, id string, input post.Input) (*model.Post, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

// Resolver はGraphQLのルートリゾルバ。
// 各操作で認証・認可を判断し、サービス層に委譲する。
type Resolver struct {
	auth  AuthService
	users UserService
	posts PostService
}

// NewResolver はResolverを生成する。
func NewResolver(authSvc AuthService, userSvc UserService, postSvc PostService) *Resolver {
	return &Resolver{
		auth:  authSvc,
		users: userSvc,
		posts: postSvc,
	}
}

// --- 入力型 ---

// UserInputData はcreateUserの入力。
type UserInputData struct {
	Email    string
	Name     string
	Password string
}

// PostInputData はcreatePost/updatePostの入力。
type PostInputData struct {
	Title    string
	Content  string
	ImageUrl string
}

// --- 出力リゾルバ ---

// UserResolver はUser型のフィールドを解決する。
type UserResolver struct {
	user *model.User
}

func (r *UserResolver) ID() graphql.ID { return graphql.ID(r.user.ID) }
func (r *UserResolver) Name() string   { return r.user.Name }
func (r *UserResolver) Email() string  { return r.user.Email }
func (r *UserResolver) Status() string { return r.user.Status }

// PostResolver はPost型のフィールドを解決する。
type PostResolver struct {
	post *model.Post
}

func (r *PostResolver) ID() graphql.ID  { return graphql.ID(r.post.ID) }
func (r *PostResolver) Title() string   { return r.post.Title }
func (r *PostResolver) Content() string { return r.post.Content }
func (r *PostResolver) ImageUrl() string {
	return r.post.ImageURL
}
func (r *PostResolver) Creator() string { return r.post.CreatorName }

// CreatedAt は作成日時をISO 8601（RFC 3339）形式で返す。
func (r *PostResolver) CreatedAt() string {
	return r.post.CreatedAt.UTC().Format(time.RFC3339)
}

// AuthDataResolver はAuthData型のフィールドを解決する。
type AuthDataResolver struct {
	result *auth.LoginResult
}

func (r *AuthDataResolver) Token() string      { return r.result.Token }
func (r *AuthDataResolver) UserID() graphql.ID { return graphql.ID(r.result.UserID) }
func (r *AuthDataResolver) UserName() string   { return r.result.UserName }

// PostDataResolver はPostData型のフィールドを解決する。
type PostDataResolver struct {
	result *post.ListResult
}

func (r *PostDataResolver) Posts() []*PostResolver {
	resolvers := make([]*PostResolver, len(r.result.Posts))
	for i, p := range r.result.Posts {
		resolvers[i] = &PostResolver{post: p}
	}
	return resolvers
}

func (r *PostDataResolver) TotalPosts() int32 {
	return int32(r.result.TotalPosts)
}

// --- Mutation ---

// CreateUser は新規ユーザーを登録する。認証は不要。
func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput UserInputData }) (*UserResolver, error) {
	user, err := r.auth.Signup(ctx, args.UserInput.Email, args.UserInput.Name, args.UserInput.Password)
	if err != nil {
		return nil, wrapError(err)
	}
	return &UserResolver{user: user}, nil
}

// CreatePost は認証済みユーザーの記事を作成する。
func (r *Resolver) CreatePost(ctx context.Context, args struct{ PostInput PostInputData }) (*PostResolver, error) {
	identity := middleware.IdentityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, errNotAuthenticated()
	}

	created, err := r.posts.Create(ctx, identity.UserID, identity.UserName, post.Input{
		Title:    args.PostInput.Title,
		Content:  args.PostInput.Content,
		ImageURL: args.PostInput.ImageUrl,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return &PostResolver{post: created}, nil
}

// UpdatePost はオーナー本人による記事の更新を行う。
func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID        graphql.ID
	PostInput PostInputData
}) (*PostResolver, error) {
	identity := middleware.IdentityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, errNotAuthenticated()
	}

	updated, err := r.posts.Update(ctx, identity.UserID, identity.UserName, string(args.ID), post.Input{
		Title:    args.PostInput.Title,
		Content:  args.PostInput.Content,
		ImageURL: args.PostInput.ImageUrl,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return &PostResolver{post: updated}, nil
}

// DeletePost はオーナー本人による記事の削除を行う。
func (r *Resolver) DeletePost(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	identity := middleware.IdentityFromContext(ctx)
	if !identity.Authenticated() {
		return false, errNotAuthenticated()
	}

	deleted, err := r.posts.Delete(ctx, identity.UserID, string(args.ID))
	if err != nil {
		return false, wrapError(err)
	}
	return deleted, nil
}

// UpdateStatus は自分のステータスを更新する。
func (r *Resolver) UpdateStatus(ctx context.Context, args struct{ Status string }) (*UserResolver, error) {
	identity := middleware.IdentityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, errNotAuthenticated()
	}

	user, err := r.users.UpdateStatus(ctx, identity.UserID, args.Status)
	if err != nil {
		return nil, wrapError(err)
	}
	return &UserResolver{user: user}, nil
}

// --- Query ---

// Login はメールアドレスとパスワードを照合し、IDトークンを返す。認証は不要。
func (r *Resolver) Login(ctx context.Context, args struct{ Email, Password string }) (*AuthDataResolver, error) {
	result, err := r.auth.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, wrapError(err)
	}
	return &AuthDataResolver{result: result}, nil
}

// Posts は記事一覧をページ単位で返す。
// pageが未指定の場合は1ページ目を返す。
func (r *Resolver) Posts(ctx context.Context, args struct{ Page *int32 }) (*PostDataResolver, error) {
	identity := middleware.IdentityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, errNotAuthenticated()
	}

	page := 1
	if args.Page != nil {
		page = int(*args.Page)
	}

	result, err := r.posts.List(ctx, page)
	if err != nil {
		return nil, wrapError(err)
	}
	return &PostDataResolver{result: result}, nil
}

// Post は指定IDの記事を返す。
func (r *Resolver) Post(ctx context.Context, args struct{ ID graphql.ID }) (*PostResolver, error) {
	identity := middleware.IdentityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, errNotAuthenticated()
	}

	p, err := r.posts.Get(ctx, string(args.ID))
	if err != nil {
		return nil, wrapError(err)
	}
	return &PostResolver{post: p}, nil
}

// User は自分のユーザーレコードを返す。
// パスワードハッシュはスキーマに含めず、クライアントへは返さない。
func (r *Resolver) User(ctx context.Context) (*UserResolver, error) {
	identity := middleware.IdentityFromContext(ctx)
	if !identity.Authenticated() {
		return nil, errNotAuthenticated()
	}

	user, err := r.users.Me(ctx, identity.UserID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &UserResolver{user: user}, nil
}
