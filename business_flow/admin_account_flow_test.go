package businessflow_test

import (
	"context"
	"testing"

	"github.com/amirphl/studio-hiring-api/app/dto"
	businessflow "github.com/amirphl/studio-hiring-api/business_flow"
	"github.com/amirphl/studio-hiring-api/models"
	testingutil "github.com/amirphl/studio-hiring-api/testing"
	"github.com/amirphl/studio-hiring-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAccountFlow_Create(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		accounts := businessflow.NewAdminAccountFlow(env.admins)
		ctx := context.Background()

		root, err := env.fixtures.CreateTestAdmin("root", models.AdminRoleSuperAdmin)
		require.NoError(t, err)
		editor, err := env.fixtures.CreateTestAdmin("editor", models.AdminRoleAdmin)
		require.NoError(t, err)

		req := &dto.CreateAdminRequest{Username: "writer", Email: "Writer@Studio.test", Password: "LongEnough1!"}

		t.Run("ForbiddenForPlainAdmin", func(t *testing.T) {
			_, err := accounts.Create(ctx, identityOf(editor), req)
			requireCode(t, err, "FORBIDDEN")
			assert.True(t, businessflow.IsForbidden(err))
		})

		t.Run("RequiresIdentity", func(t *testing.T) {
			_, err := accounts.Create(ctx, nil, req)
			requireCode(t, err, "UNAUTHORIZED")
		})

		t.Run("SuperAdminCreates", func(t *testing.T) {
			out, err := accounts.Create(ctx, identityOf(root), req)
			require.NoError(t, err)
			assert.Equal(t, "writer", out.Username)
			assert.Equal(t, "writer@studio.test", out.Email)
			assert.Equal(t, "admin", out.Role)

			stored, err := env.admins.ByUsername(ctx, "writer")
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("LongEnough1!")))
		})

		t.Run("DuplicateIdentity", func(t *testing.T) {
			dup := &dto.CreateAdminRequest{Username: "writer2", Email: "WRITER@studio.test", Password: "LongEnough1!"}
			_, err := accounts.Create(ctx, identityOf(root), dup)
			requireCode(t, err, "DUPLICATE_IDENTITY")
		})

		t.Run("InvalidRole", func(t *testing.T) {
			bad := &dto.CreateAdminRequest{Username: "owner", Email: "owner@studio.test", Password: "LongEnough1!", Role: "owner"}
			_, err := accounts.Create(ctx, identityOf(root), bad)
			assert.True(t, businessflow.IsValidationFailed(err))
		})

		t.Run("ListIsSuperAdminOnly", func(t *testing.T) {
			_, err := accounts.List(ctx, identityOf(editor))
			requireCode(t, err, "FORBIDDEN")

			list, err := accounts.List(ctx, identityOf(root))
			require.NoError(t, err)
			assert.Len(t, list.Admins, 3)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminAccountFlow_SetActive(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		accounts := businessflow.NewAdminAccountFlow(env.admins)
		ctx := context.Background()

		root, err := env.fixtures.CreateTestAdmin("root", models.AdminRoleSuperAdmin)
		require.NoError(t, err)
		editor, err := env.fixtures.CreateTestAdmin("editor", models.AdminRoleAdmin)
		require.NoError(t, err)

		t.Run("CannotDeactivateSelf", func(t *testing.T) {
			_, err := accounts.SetActive(ctx, identityOf(root), root.UUID.String(), false)
			requireCode(t, err, "CANNOT_DEACTIVATE_SELF")
		})

		t.Run("Deactivate", func(t *testing.T) {
			out, err := accounts.SetActive(ctx, identityOf(root), editor.UUID.String(), false)
			require.NoError(t, err)
			require.NotNil(t, out.IsActive)
			assert.False(t, *out.IsActive)

			stored, err := env.admins.ByID(ctx, editor.ID)
			require.NoError(t, err)
			assert.False(t, utils.IsTrue(stored.IsActive))
			assert.Equal(t, editor.PasswordHash, stored.PasswordHash)
		})

		t.Run("PlainAdminForbidden", func(t *testing.T) {
			_, err := accounts.SetActive(ctx, identityOf(editor), root.UUID.String(), false)
			requireCode(t, err, "FORBIDDEN")
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminAccountFlow_UpdateProfile(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		accounts := businessflow.NewAdminAccountFlow(env.admins)
		ctx := context.Background()

		editor, err := env.fixtures.CreateTestAdmin("editor", models.AdminRoleAdmin)
		require.NoError(t, err)

		t.Run("NewPasswordNeedsCurrent", func(t *testing.T) {
			_, err := accounts.UpdateProfile(ctx, identityOf(editor), &dto.UpdateAdminProfileRequest{NewPassword: utils.ToPtr("AnotherPass9!")})
			assert.True(t, businessflow.IsValidationFailed(err))
		})

		t.Run("WrongCurrentPassword", func(t *testing.T) {
			_, err := accounts.UpdateProfile(ctx, identityOf(editor), &dto.UpdateAdminProfileRequest{
				CurrentPassword: utils.ToPtr("nope"),
				NewPassword:     utils.ToPtr("AnotherPass9!"),
			})
			requireCode(t, err, "INCORRECT_PASSWORD")
		})

		t.Run("ChangesPassword", func(t *testing.T) {
			_, err := accounts.UpdateProfile(ctx, identityOf(editor), &dto.UpdateAdminProfileRequest{
				CurrentPassword: utils.ToPtr(testingutil.TestPassword),
				NewPassword:     utils.ToPtr("AnotherPass9!"),
			})
			require.NoError(t, err)

			stored, err := env.admins.ByID(ctx, editor.ID)
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("AnotherPass9!")))
		})

		t.Run("EmailOnlyKeepsHash", func(t *testing.T) {
			before, err := env.admins.ByID(ctx, editor.ID)
			require.NoError(t, err)

			out, err := accounts.UpdateProfile(ctx, identityOf(editor), &dto.UpdateAdminProfileRequest{Email: utils.ToPtr("Editor.New@Studio.test")})
			require.NoError(t, err)
			assert.Equal(t, "editor.new@studio.test", out.Email)

			after, err := env.admins.ByID(ctx, editor.ID)
			require.NoError(t, err)
			assert.Equal(t, before.PasswordHash, after.PasswordHash)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminAccountFlow_EnsureDefaultAdmin(t *testing.T) {
	err := testingutil.TestWithDB(func(db *testingutil.TestDB) error {
		env := newFlowEnv(t, db)
		accounts := businessflow.NewAdminAccountFlow(env.admins)
		ctx := context.Background()
		cfg := businessflow.DefaultAdminConfig{Username: "admin", Email: "admin@studio.test", Password: "Bootstrap123!"}

		created, err := accounts.EnsureDefaultAdmin(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = accounts.EnsureDefaultAdmin(ctx, cfg)
		require.NoError(t, err)
		assert.False(t, created)

		admin, err := env.admins.ByUsername(ctx, "admin")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.True(t, admin.IsSuperAdmin())

		count, err := env.admins.Count(ctx, models.AdminFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		return nil
	})
	require.NoError(t, err)
}
