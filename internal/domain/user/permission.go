package user

type Permission string

const (
	PermissionProfileViewOwn Permission = "profile.view_own"

	PermissionUserView   Permission = "user.view"
	PermissionUserManage Permission = "user.manage"

	PermissionMasterManage Permission = "master.manage"

	PermissionDeviceManage Permission = "device.manage"

	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"

	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveReview  Permission = "leave.review"

	PermissionResignationCreate Permission = "resignation.create"
	PermissionResignationReview Permission = "resignation.review"

	PermissionSalaryViewOwn Permission = "salary.view_own"
	PermissionSalaryManage  Permission = "salary.manage"

	PermissionDocumentViewOwn Permission = "document.view_own"
	PermissionDocumentManage  Permission = "document.manage"

	PermissionReportsView Permission = "reports.view"
)

var selfService = []Permission{
	PermissionProfileViewOwn,
	PermissionAttendanceViewOwn,
	PermissionLeaveCreate,
	PermissionResignationCreate,
	PermissionSalaryViewOwn,
	PermissionDocumentViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append([]Permission{
		PermissionUserView,
		PermissionUserManage,
		PermissionMasterManage,
		PermissionDeviceManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveReview,
		PermissionResignationReview,
		PermissionSalaryManage,
		PermissionDocumentManage,
		PermissionReportsView,
	}, selfService...),
	RoleHR: append([]Permission{
		PermissionUserView,
		PermissionUserManage,
		PermissionMasterManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionLeaveViewAll,
		PermissionLeaveReview,
		PermissionResignationReview,
		PermissionSalaryManage,
		PermissionDocumentManage,
		PermissionReportsView,
	}, selfService...),
	RoleManager: append([]Permission{
		PermissionUserView,
		PermissionAttendanceViewAll,
		PermissionLeaveViewAll,
		PermissionLeaveReview,
		PermissionReportsView,
	}, selfService...),
	RoleEmployee: selfService,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
