package api

// Success message keys, localised per request.
const (
	msgRegistered        = "User is successfully registered"
	msgRegisteredNoEmail = "User is successfully registered, but the verification email could not be sent"
	msgLoggedIn          = "User is successfully logged in"
	msgLoggedOut         = "User is successfully logged out"
	msgEmailVerified     = "Email verified successfully"
	msgResetEmailSent    = "check your email to reset your password"
	msgPasswordReset     = "password reset successfully"
	msgRolesUpdated      = "User roles updated successfully"
	msgManagerAssigned   = "Manager assigned successfully."
	msgProfileUpdated    = "Profile updated successfully"
	msgProfileDetails    = "User profile details"
	msgImageUploaded     = "Your image has been uploded successfully"
	msgSuccess           = "Success"
	msgTripCreated       = "Trip request created successfully"
	msgTripUpdated       = "Trip request updated successfully"
	msgTripApproved      = "Trip request approved"
	msgTripRejected      = "Trip request rejected"
	msgTripConfirmed     = "Trip request confirmed"
	msgFacilityCreated   = "Facility created successfully"
	msgRoomCreated       = "Room created successfully"
	msgFacilityLiked     = "Facility liked"
	msgFacilityUnliked   = "Facility unliked"
	msgRoomBooked        = "Room booked successfully"
	msgFacilityRated     = "Facility rated successfully"
	msgFeedbackSaved     = "Thank you for your feedback"
)
