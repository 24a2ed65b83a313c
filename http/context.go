package http

import (
	"context"

	"groupblog/domain"
)

type privateKey string

const userKey privateKey = "user"

func setUserInContext(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func getUserFromContext(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
