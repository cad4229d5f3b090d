// Package mocks provides function-field test doubles for interfaces shared
// across packages.
//
// Each mock calls its Fn field when set and otherwise returns its default
// fields:
//
//	jwtService := &mocks.MockJWTService{
//	    ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	        return &auth.Claims{LearnerID: learnerID}, nil
//	    },
//	}
package mocks
