// AngelaMos | 2026
// templates.go

package mailer

// Template names, matching files under templates/.
const (
	TemplateActivationOTP    = "activation_otp.html"
	TemplateForgotPassword   = "forgot_password.html"
	TemplateUpdatePassword   = "update_password.html"
	TemplateEmailOTP         = "email_otp.html"
	TemplateUpdateEmail      = "update_email.html"
	TemplateAdminEmailVerify = "admin_email_verify.html"
	TemplateAdminEmailNotice = "admin_email_notice.html"
	TemplateDeleteOTP        = "delete_otp.html"
	TemplateConfirmDelete    = "confirm_delete.html"
	TemplateDeleteUser       = "delete_user.html"
	TemplateBlockUser        = "block_user.html"
	TemplateUnblockUser      = "unblock_user.html"
	TemplateUpdateRole       = "update_role.html"
	TemplateContactMessage   = "contact_message.html"
	TemplateProductCreated   = "product_created.html"
	TemplateProductEdited    = "product_edited.html"
)
