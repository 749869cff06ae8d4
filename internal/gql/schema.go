// Package gql はGraphQLスキーマとリゾルバを提供する。
package gql

import graphql "github.com/graph-gophers/graphql-go"

// NewSchema はスキーマ定義とルートリゾルバから実行可能なスキーマを構築する。
// スキーマとリゾルバの不整合は起動時にpanicとして検出される。
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r)
}

// Schema はAPI全体のGraphQLスキーマ定義。
// 全操作は単一のエンドポイントから実行される。
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Post {
		id: ID!
		title: String!
		content: String!
		imageUrl: String!
		creator: String!
		createdAt: String!
	}

	type User {
		id: ID!
		name: String!
		email: String!
		status: String!
	}

	type AuthData {
		token: String!
		userId: ID!
		userName: String!
	}

	type PostData {
		posts: [Post!]!
		totalPosts: Int!
	}

	input UserInputData {
		email: String!
		name: String!
		password: String!
	}

	input PostInputData {
		title: String!
		content: String!
		imageUrl: String!
	}

	type Query {
		login(email: String!, password: String!): AuthData!
		posts(page: Int): PostData!
		post(id: ID!): Post!
		user: User!
	}

	type Mutation {
		createUser(userInput: UserInputData!): User!
		createPost(postInput: PostInputData!): Post!
		updatePost(id: ID!, postInput: PostInputData!): Post!
		deletePost(id: ID!): Boolean!
		updateStatus(status: String!): User!
	}
`
