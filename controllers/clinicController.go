package controllers

import (
	"HillsideClinic/handlers"
	"HillsideClinic/middlewares"
	"HillsideClinic/models"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes wires the workflow endpoints. Every route requires a
// valid token; write routes are additionally restricted to the department
// roles that own the operation. Admin passes every role guard.
func SetupClinicRoutes(
	router *gin.Engine,
	patientHandler *handlers.PatientHandler,
	doctorHandler *handlers.DoctorHandler,
	visitHandler *handlers.VisitHandler,
	billingHandler *handlers.BillingHandler,
	queueHandler *handlers.QueueHandler,
	orderHandler *handlers.OrderHandler,
	preRegistrationHandler *handlers.PreRegistrationHandler,
) {
	authed := router.Group("/", middlewares.TokenAuthMiddleware())

	// Reads open to any authenticated staff member.
	authed.GET("/patients", patientHandler.GetAllPatients)
	authed.GET("/patients/:patient_id", patientHandler.GetPatientByID)
	authed.GET("/doctors", doctorHandler.GetAllDoctors)
	authed.GET("/doctors/:doctor_id", doctorHandler.GetDoctorByID)
	authed.GET("/visits", visitHandler.GetAllVisits)
	authed.GET("/visits/:visit_id", visitHandler.GetVisitByID)
	authed.GET("/visits/:visit_id/progress", visitHandler.GetResultsProgress)
	authed.GET("/queues/workloads", queueHandler.GetWorkloads)

	reception := authed.Group("/", middlewares.RoleAuthMiddleware(models.RoleReception))
	{
		reception.POST("/patients", patientHandler.RegisterPatient)
		reception.POST("/patients/:patient_id/card/activate", patientHandler.ActivateCard)
		reception.POST("/visits", visitHandler.CreateVisit)
		reception.POST("/visits/:visit_id/cancel", visitHandler.CancelVisit)
		reception.POST("/preregistrations", preRegistrationHandler.AddEntry)
		reception.GET("/preregistrations", preRegistrationHandler.ListPending)
		reception.POST("/preregistrations/:entry_id/process", preRegistrationHandler.ProcessEntry)
		reception.POST("/preregistrations/:entry_id/cancel", preRegistrationHandler.CancelEntry)
	}

	nurse := authed.Group("/", middlewares.RoleAuthMiddleware(models.RoleNurse))
	{
		nurse.POST("/visits/:visit_id/vitals", visitHandler.RecordVitals)
		nurse.GET("/queues/recommendation", queueHandler.RecommendDoctor)
	}

	doctor := authed.Group("/", middlewares.RoleAuthMiddleware(models.RoleDoctor))
	{
		doctor.GET("/queues/doctors/:doctor_id", queueHandler.GetDoctorQueue)
		doctor.POST("/visits/:visit_id/start-review", visitHandler.StartReview)
		doctor.POST("/visits/:visit_id/orders", visitHandler.CreateOrders)
		doctor.POST("/visits/:visit_id/pharmacy-order", visitHandler.CreatePharmacyOrder)
		doctor.POST("/visits/:visit_id/complete", visitHandler.CompleteVisit)
	}

	billing := authed.Group("/", middlewares.RoleAuthMiddleware(models.RoleBilling))
	{
		billing.GET("/billings", billingHandler.GetAllBillings)
		billing.GET("/billings/:billing_id", billingHandler.GetBillingByID)
		billing.POST("/billings/:billing_id/services", billingHandler.AddService)
		billing.DELETE("/billings/:billing_id/services/:service_id", billingHandler.RemoveService)
		billing.POST("/billings/:billing_id/payments", billingHandler.RecordPayment)
		billing.GET("/visits/:visit_id/emergency-billing", billingHandler.GetEmergencyBillingByVisit)
		billing.GET("/emergency-billings/:billing_id", billingHandler.GetEmergencyBillingByID)
		billing.POST("/emergency-billings/:billing_id/services", billingHandler.AddEmergencyService)
		billing.DELETE("/emergency-billings/:billing_id/services/:service_id", billingHandler.RemoveEmergencyService)
		billing.POST("/emergency-billings/:billing_id/acknowledge", billingHandler.AcknowledgeEmergencyBilling)
	}

	departments := authed.Group("/", middlewares.RoleAuthMiddleware(
		models.RoleLab, models.RoleRadiology, models.RolePharmacy))
	{
		departments.GET("/orders", orderHandler.ListOrders)
		departments.POST("/orders/:order_id/release", orderHandler.ReleaseOrder)
		departments.POST("/orders/:order_id/complete", orderHandler.CompleteOrder)
	}

	pharmacy := authed.Group("/", middlewares.RoleAuthMiddleware(models.RolePharmacy))
	{
		pharmacy.POST("/orders/:order_id/dispense", orderHandler.Dispense)
	}

	admin := authed.Group("/", middlewares.RoleAuthMiddleware(models.RoleAdmin))
	{
		admin.POST("/doctors", doctorHandler.CreateDoctor)
	}
}
