package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"gerejaku_backend/internals/constants"
	helper "gerejaku_backend/internals/helpers"
)

// IsTenantAdmin: hanya admin gereja (atau owner global) yang lolos.
// tenant_id wajib ada di token — tanpa itu semua operasi tenant ditolak.
func IsTenantAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetRoleFromToken(c)

		// ✅ Owner bypass
		if role == constants.RoleOwner {
			return c.Next()
		}

		if role != constants.RoleAdmin {
			log.Println("[MIDDLEWARE] Akses ditolak, role:", role)
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin("tenant"))
		}

		if _, err := helper.GetTenantIDFromToken(c); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid atau tidak memiliki akses tenant")
		}

		return c.Next()
	}
}

// IsTenantStaff: staff check-in, admin, atau owner.
func IsTenantStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetRoleFromToken(c)

		if role == constants.RoleOwner {
			return c.Next()
		}

		if role != constants.RoleAdmin && role != constants.RoleStaff {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorStaff("check-in"))
		}

		if _, err := helper.GetTenantIDFromToken(c); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token tidak valid atau tidak memiliki akses tenant")
		}

		return c.Next()
	}
}

// IsOwnerGlobal: khusus endpoint platform owner (/api/o).
func IsOwnerGlobal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helper.GetRoleFromToken(c) != constants.RoleOwner {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorOwner("platform"))
		}
		return c.Next()
	}
}
